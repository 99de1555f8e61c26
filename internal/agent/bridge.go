package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// mcpKnownIssueFragment replaces raw 500 errors when chatting with an
// agent that carries an MCP tool. The remote service has a known defect
// correlating tool-bearing agents with transient 500s; naming the
// limitation is more useful to the caller than the bare error. This is a
// heuristic: a 500 on a tool-bearing agent is not guaranteed to share
// that root cause.
const mcpKnownIssueFragment = "Server error (500): this agent has MCP tools attached. " +
	"There is a known issue with the agent service when chatting with MCP-tool agents through the API. " +
	"Try this agent directly in the service portal instead."

// Bridge drives chat exchanges and normalizes every response into a
// finite, ordered sequence of text fragments. Each call is a fresh
// exchange: failures are terminal for that call and there is no retry.
type Bridge struct {
	client          foundry.Client
	registry        *ConfigRegistry
	modelDeployment string
	log             *logging.Logger
}

// NewBridge creates a chat bridge over the given adapter and registry.
// modelDeployment backs the locally-authored path, which addresses chats
// by model rather than by remote agent.
func NewBridge(client foundry.Client, registry *ConfigRegistry, modelDeployment string, log *logging.Logger) *Bridge {
	return &Bridge{
		client:          client,
		registry:        registry,
		modelDeployment: modelDeployment,
		log:             log.Sub("bridge"),
	}
}

// ChatLocal runs one streamed exchange with a locally authored agent.
// An unknown id yields exactly one explanatory fragment. Fragments are
// emitted in arrival order until the remote stream ends; the channel is
// closed when the exchange is over.
func (b *Bridge) ChatLocal(ctx context.Context, agentID, message string) <-chan string {
	fragments := make(chan string)

	go func() {
		defer close(fragments)
		emit := emitter(ctx, fragments)

		cfg, ok := b.registry.Get(agentID)
		if !ok {
			emit(fmt.Sprintf("Error: agent %q not found.", agentID))
			return
		}

		responses := b.client.Responses()
		conversation, err := responses.CreateConversation(ctx)
		if err != nil {
			b.log.Error().Err(err).Str("agent", agentID).Msg("opening conversation failed")
			emit(fmt.Sprintf("Error chatting with the agent: %v", err))
			return
		}

		events, err := responses.StreamAgentChat(ctx, foundry.AgentChatRequest{
			Name:         cfg.Name,
			Instructions: cfg.Instructions,
			Model:        b.modelDeployment,
			Conversation: conversation,
			Message:      message,
		})
		if err != nil {
			emit(fmt.Sprintf("Error chatting with the agent: %v", err))
			return
		}

		for evt := range events {
			switch evt.Type {
			case "delta":
				if !emit(evt.Text) {
					return
				}
			case "error":
				emit(fmt.Sprintf("Error chatting with the agent: %s", evt.Error))
				return
			case "done":
				return
			}
		}
	}()

	return fragments
}

// ChatRemote runs one exchange with an agent from the remote catalog,
// addressed by agent reference (name + latest version). The remote
// response is a single structured object; its output items are flattened
// into fragments preserving remote order. threadID, when given, threads
// an existing conversation through the exchange.
func (b *Bridge) ChatRemote(ctx context.Context, agentID, message, threadID string) <-chan string {
	fragments := make(chan string)

	go func() {
		defer close(fragments)
		emit := emitter(ctx, fragments)

		rec, err := b.client.GetAgent(ctx, agentID)
		if err != nil {
			b.log.Error().Err(err).Str("agent", agentID).Msg("fetching agent failed")
			emit(fmt.Sprintf("Error chatting with agent: %v", err))
			return
		}

		version := "1"
		hasMCPTool := false
		if rec.Versions != nil && rec.Versions.Latest != nil {
			latest := rec.Versions.Latest
			if v := latest.Version.String(); v != "" {
				version = v
			}
			hasMCPTool = foundry.NormalizeDefinition(latest.Definition).HasToolType("mcp")
		}

		resp, err := b.client.Responses().CreateResponse(ctx, foundry.ResponseRequest{
			Input: []foundry.InputMessage{{Role: "user", Content: message}},
			Agent: &foundry.AgentReference{
				Type:    "agent_reference",
				Name:    rec.Name,
				Version: version,
			},
			Conversation: threadID,
		})
		if err != nil {
			emit(b.classifyFailure(err, hasMCPTool))
			return
		}

		for _, part := range resp.TextParts() {
			if !emit(part) {
				return
			}
		}
	}()

	return fragments
}

// classifyFailure turns a remote chat failure into its single fragment.
func (b *Bridge) classifyFailure(err error, hasMCPTool bool) string {
	msg := err.Error()
	if hasMCPTool && containsServerError(msg) {
		b.log.Warn().Err(err).Msg("mcp-tool agent hit known 500 limitation")
		return mcpKnownIssueFragment
	}
	return fmt.Sprintf("Error chatting with agent: %s", msg)
}

// containsServerError reports whether a failure signature carries the
// 500 marker. The match is textual on purpose: by the time the error
// reaches the bridge it is not guaranteed to be a typed HTTP status.
func containsServerError(msg string) bool {
	return strings.Contains(msg, "500")
}

// emitter returns a send function that respects cancellation. Sends stop
// promptly once ctx is done; a false return means the consumer is gone.
func emitter(ctx context.Context, out chan<- string) func(string) bool {
	return func(fragment string) bool {
		select {
		case out <- fragment:
			return true
		case <-ctx.Done():
			return false
		}
	}
}
