// Package domain holds the value types shared across the portal.
package domain

import "time"

// AgentConfig is a locally authored agent configuration. Configs live only
// for the process lifetime; they are never pushed to disk.
type AgentConfig struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RemoteAgentSummary is the normalized view of an agent hosted on the
// remote service. It is derived from the agent's latest version on each
// listing call and never cached locally.
//
// HasTools is true exactly when ToolTypes is non-empty; both fields are
// set together in catalog normalization and nowhere else.
type RemoteAgentSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       string   `json:"model"`
	CreatedAt   string   `json:"createdAt"` // best effort; "" when the remote omits it
	HasTools    bool     `json:"hasTools"`
	ToolTypes   []string `json:"toolTypes,omitempty"` // nil when the agent has no tools
}

// ToolConnection is a remote-registered tool endpoint. Only connections of
// the remote-tool kind are surfaced; ToolType is always "mcp" here.
type ToolConnection struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Target   string `json:"target"`
	ToolType string `json:"toolType"`
}
