package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vigtec/agentportal/internal/domain"
	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// remoteToolMarker flags connection types that surface as attachable
// tools; all other connection kinds stay invisible to the portal.
const remoteToolMarker = "REMOTE_TOOL"

// mcpToolType is the kind tag under which remote tool connections are
// exposed.
const mcpToolType = "mcp"

// ConnectionDirectory resolves human-readable tool names against the
// remote connection inventory. Every call re-queries the remote;
// nothing is cached.
type ConnectionDirectory struct {
	client   foundry.Client
	approval string // require_approval policy stamped on resolved tools
	log      *logging.Logger
}

// NewConnectionDirectory creates a directory over the given adapter.
// approval is the manual-approval policy attached to resolved tools
// ("never" trades safety for interactive convenience and is the default).
func NewConnectionDirectory(client foundry.Client, approval string, log *logging.Logger) *ConnectionDirectory {
	if approval == "" {
		approval = "never"
	}
	return &ConnectionDirectory{
		client:   client,
		approval: approval,
		log:      log.Sub("directory"),
	}
}

// ListTools returns the remote-tool connections in remote enumeration
// order. Duplicate remote names yield duplicate entries; no dedup.
func (d *ConnectionDirectory) ListTools(ctx context.Context) ([]domain.ToolConnection, error) {
	conns, err := d.client.ListConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	var tools []domain.ToolConnection
	for _, conn := range conns {
		if !strings.Contains(conn.Type, remoteToolMarker) {
			continue
		}
		tools = append(tools, domain.ToolConnection{
			ID:       conn.ID,
			Name:     conn.Name,
			Target:   conn.Target,
			ToolType: mcpToolType,
		})
	}
	return tools, nil
}

// Resolve maps requested tool names to attachment specs using a single
// enumeration pass over the full connection inventory, not just the
// remote-tool subset. Names with no matching connection are skipped with
// a warning; resolution never fails on an unknown name.
func (d *ConnectionDirectory) Resolve(ctx context.Context, names []string) ([]foundry.MCPToolSpec, error) {
	if len(names) == 0 {
		return nil, nil
	}

	conns, err := d.client.ListConnections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	type connInfo struct {
		id     string
		target string
	}
	byName := make(map[string]connInfo, len(conns))
	for _, conn := range conns {
		byName[conn.Name] = connInfo{id: conn.ID, target: conn.Target}
	}

	var specs []foundry.MCPToolSpec
	for _, name := range names {
		info, ok := byName[name]
		if !ok {
			d.log.Warn().Str("tool", name).Msg("requested tool has no matching connection, skipping")
			continue
		}
		specs = append(specs, foundry.MCPToolSpec{
			Type:                mcpToolType,
			ServerLabel:         name,
			ServerURL:           info.target,
			ProjectConnectionID: info.id,
			AllowedTools:        []string{}, // empty means unrestricted
			RequireApproval:     d.approval,
		})
	}
	return specs, nil
}
