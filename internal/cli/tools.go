package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vigtec/agentportal/internal/catalog"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List tool connections available to agents",
	}

	cmd.AddCommand(newToolsListCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remote tool connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newFoundryClient(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			directory := catalog.NewConnectionDirectory(client, cfg.Portal.ToolApproval, log)
			tools, err := directory.ListTools(ctx)
			if err != nil {
				return err
			}

			if len(tools) == 0 {
				fmt.Println("No tool connections found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tTARGET")
			for _, t := range tools {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.ToolType, t.Target)
			}
			return w.Flush()
		},
	}
}
