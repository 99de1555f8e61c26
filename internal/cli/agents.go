package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/catalog"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List and create hosted agents",
	}

	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsCreateCmd())
	return cmd
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents hosted on the remote project",
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
			list, err := catalog.New(client, directory, log).List(ctx)
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Println("No agents found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMODEL\tTOOLS")
			for _, a := range list {
				tools := "-"
				if a.HasTools {
					tools = strings.Join(a.ToolTypes, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Model, tools)
			}
			return w.Flush()
		},
	}
}

func newAgentsCreateCmd() *cobra.Command {
	var (
		purpose      string
		personality  string
		capabilities []string
		rules        []string
		toolNames    []string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a hosted agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if purpose == "" {
				return fmt.Errorf("--purpose is required")
			}

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

			instructions := agent.ComposeInstructions(agent.InstructionSpec{
				Purpose:      purpose,
				Personality:  personality,
				Capabilities: capabilities,
				Rules:        rules,
			})

			directory := catalog.NewConnectionDirectory(client, cfg.Portal.ToolApproval, log)
			created, err := catalog.New(client, directory, log).Create(ctx, args[0], instructions, cfg.Foundry.ModelDeployment, toolNames)
			if err != nil {
				return err
			}

			fmt.Printf("Created agent %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "what the agent is for (required)")
	cmd.Flags().StringVar(&personality, "personality", "", "agent personality")
	cmd.Flags().StringSliceVar(&capabilities, "capability", nil, "agent capability (repeatable)")
	cmd.Flags().StringSliceVar(&rules, "rule", nil, "behavior rule (repeatable)")
	cmd.Flags().StringSliceVar(&toolNames, "tool", nil, "tool connection name to attach (repeatable)")

	return cmd
}
