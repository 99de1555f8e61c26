package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/catalog"
	"github.com/vigtec/agentportal/internal/domain"
)

// exitWords end the console chat loop, matched case-insensitively.
var exitWords = map[string]bool{
	"salir": true,
	"exit":  true,
	"quit":  true,
}

func newChatCmd() *cobra.Command {
	var (
		purpose     string
		personality string
	)

	cmd := &cobra.Command{
		Use:   "chat <agent>",
		Short: "Chat with an agent from the terminal",
		Long: "Chat opens a console conversation with a hosted agent, addressed by name or id.\n" +
			"With --purpose, a throwaway local agent is composed instead and chatted with directly.\n" +
			"Type 'exit', 'quit', or 'salir' to leave.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := newFoundryClient(cfg)
			if err != nil {
				return err
			}

			registry := agent.NewConfigRegistry()
			bridge := agent.NewBridge(client, registry, cfg.Foundry.ModelDeployment, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if purpose != "" {
				local := registry.CreateConfig(args[0], "", agent.InstructionSpec{
					Purpose:     purpose,
					Personality: personality,
				})
				fmt.Printf("Chatting with local agent %s (%s)\n", local.Name, local.ID)
				return chatLoop(ctx, func(message string) <-chan string {
					return bridge.ChatLocal(ctx, local.ID, message)
				})
			}

			directory := catalog.NewConnectionDirectory(client, cfg.Portal.ToolApproval, log)
			agents := catalog.New(client, directory, log)
			summary, err := findAgent(ctx, agents, args[0])
			if err != nil {
				return err
			}

			// One conversation per console session keeps context across
			// turns.
			thread, err := client.Responses().CreateConversation(ctx)
			if err != nil {
				return fmt.Errorf("opening conversation: %w", err)
			}

			fmt.Printf("Chatting with %s\n", summary.Name)
			return chatLoop(ctx, func(message string) <-chan string {
				return bridge.ChatRemote(ctx, summary.ID, message, thread)
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "compose a throwaway local agent with this purpose")
	cmd.Flags().StringVar(&personality, "personality", "", "personality for the throwaway local agent")

	return cmd
}

// findAgent resolves a name or id against the remote catalog.
func findAgent(ctx context.Context, agents *catalog.Catalog, nameOrID string) (*domain.RemoteAgentSummary, error) {
	list, err := agents.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.ID == nameOrID || a.Name == nameOrID {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("agent %q not found", nameOrID)
}

// chatLoop reads lines from stdin and prints fragments as they arrive.
func chatLoop(ctx context.Context, exchange func(message string) <-chan string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			fmt.Println("Bye.")
			return nil
		}

		fmt.Print("Agent: ")
		for fragment := range exchange(line) {
			fmt.Print(fragment)
		}
		fmt.Println()

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}
