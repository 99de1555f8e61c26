// Package catalog produces the normalized view of remote agents and
// creates new ones.
package catalog

import (
	"context"
	"fmt"

	"github.com/vigtec/agentportal/internal/agent"
	"github.com/vigtec/agentportal/internal/domain"
	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// Catalog lists and creates agents on the remote directory. Listings are
// re-fetched on every call; there is no local cache of remote agents.
type Catalog struct {
	client    foundry.Client
	directory *ConnectionDirectory
	log       *logging.Logger
}

// New creates a catalog over the given adapter and connection directory.
func New(client foundry.Client, directory *ConnectionDirectory, log *logging.Logger) *Catalog {
	return &Catalog{
		client:    client,
		directory: directory,
		log:       log.Sub("catalog"),
	}
}

// List enumerates every remote agent, normalized from its latest
// version's definition. Ordering matches remote enumeration order.
func (c *Catalog) List(ctx context.Context) ([]domain.RemoteAgentSummary, error) {
	records, err := c.client.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}

	summaries := make([]domain.RemoteAgentSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec))
	}
	return summaries, nil
}

// summarize is the one place a RemoteAgentSummary is built from a raw
// record; the has_tools/tool_types invariant holds by construction here.
func summarize(rec foundry.AgentRecord) domain.RemoteAgentSummary {
	summary := domain.RemoteAgentSummary{
		ID:   rec.ID,
		Name: rec.Name,
	}
	if summary.Name == "" {
		summary.Name = "unnamed"
	}

	latest := latestVersion(rec)
	if latest == nil {
		return summary
	}

	info := foundry.NormalizeDefinition(latest.Definition)
	summary.Model = info.Model
	summary.Description = latest.Description
	summary.CreatedAt = latest.CreatedAt.String()
	if info.HasTools() {
		summary.HasTools = true
		summary.ToolTypes = info.ToolTypes
	}
	return summary
}

func latestVersion(rec foundry.AgentRecord) *foundry.AgentVersion {
	if rec.Versions == nil {
		return nil
	}
	return rec.Versions.Latest
}

// Create registers a new remote agent. The display name is sanitized to
// the remote naming grammar, tool names resolve through the connection
// directory, and an empty resolved set means the definition carries no
// tools field at all (the remote distinguishes absence from empty).
//
// The create call does not echo description or timestamp, so the
// returned summary leaves them empty.
func (c *Catalog) Create(ctx context.Context, name, instructions, model string, toolNames []string) (*domain.RemoteAgentSummary, error) {
	sanitized := agent.SanitizeName(name)
	c.log.Info().Str("name", name).Str("sanitized", sanitized).Strs("tools", toolNames).Msg("creating agent")

	var tools []foundry.MCPToolSpec
	if len(toolNames) > 0 {
		resolved, err := c.directory.Resolve(ctx, toolNames)
		if err != nil {
			return nil, fmt.Errorf("resolving tools: %w", err)
		}
		tools = resolved
	}

	def := &foundry.PromptAgentDefinition{
		Kind:         "prompt_agent",
		Model:        model,
		Instructions: instructions,
		Tools:        tools, // nil or empty serializes as absent
	}

	rec, err := c.client.CreateAgent(ctx, sanitized, def)
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	created := &domain.RemoteAgentSummary{
		ID:    rec.ID,
		Name:  rec.Name,
		Model: model,
	}
	if created.Name == "" {
		created.Name = sanitized
	}
	return created, nil
}
