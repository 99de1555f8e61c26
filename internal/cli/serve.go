package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/catalog"
	"github.com/vigtec/agentportal/internal/gateway"
	"github.com/vigtec/agentportal/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Portal.Port = port
			}
			if bind != "" {
				cfg.Portal.Bind = bind
			}

			client, err := newFoundryClient(cfg)
			if err != nil {
				return err
			}

			registry := agent.NewConfigRegistry()
			directory := catalog.NewConnectionDirectory(client, cfg.Portal.ToolApproval, log)
			agents := catalog.New(client, directory, log)
			bridge := agent.NewBridge(client, registry, cfg.Foundry.ModelDeployment, log)

			var transcripts *store.TranscriptStore
			if cfg.Store.Enabled {
				if err := paths.EnsureDirs(); err != nil {
					return fmt.Errorf("creating data directory: %w", err)
				}
				dbPath := cfg.Store.Path
				if dbPath == "" {
					dbPath = filepath.Join(paths.Data, "agentportal.db")
				}
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening transcript store: %w", err)
				}
				defer db.Close()
				transcripts = store.NewTranscriptStore(db)
				log.Info().Str("path", dbPath).Msg("transcript store enabled")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := gateway.NewServer(cfg.Portal, gateway.Deps{
				Registry:    registry,
				Catalog:     agents,
				Directory:   directory,
				Bridge:      bridge,
				Transcripts: transcripts,
				Model:       cfg.Foundry.ModelDeployment,
			}, log)

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override portal port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
