package foundry

import (
	"encoding/json"
	"strings"
)

// FlexString decodes a JSON value that may arrive as a string or a number.
// The remote service is inconsistent about version and timestamp fields.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// PromptAgentDefinition is the typed shape of a remote agent definition:
// the model, instruction text, and attached tools for one agent version.
//
// Tools uses omitempty deliberately: the remote contract distinguishes
// "no tools" (field absent) from an empty collection, and an empty slice
// must serialize as absent.
type PromptAgentDefinition struct {
	Kind         string        `json:"type,omitempty"` // "prompt_agent"
	Model        string        `json:"model"`
	Instructions string        `json:"instructions,omitempty"`
	Tools        []MCPToolSpec `json:"tools,omitempty"`
}

// MCPToolSpec attaches a remote tool connection to an agent definition.
type MCPToolSpec struct {
	Type                string   `json:"type"` // "mcp"
	ServerLabel         string   `json:"server_label"`
	ServerURL           string   `json:"server_url"`
	ProjectConnectionID string   `json:"project_connection_id"`
	AllowedTools        []string `json:"allowed_tools"`
	RequireApproval     string   `json:"require_approval"`
}

// AgentRecord is one agent as enumerated by the remote directory.
type AgentRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Versions *AgentVersions `json:"versions,omitempty"`
}

// AgentVersions carries the version graph of an agent. Only the latest
// version is surfaced by the service today.
type AgentVersions struct {
	Latest *AgentVersion `json:"latest,omitempty"`
}

// AgentVersion is a single version of an agent.
//
// Definition is deliberately untyped: depending on the API path that
// produced the record it is either a keyed JSON mapping (map[string]any)
// or a *PromptAgentDefinition. Consumers must go through
// NormalizeDefinition and never inspect the raw shape themselves.
type AgentVersion struct {
	Version     FlexString `json:"version,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   FlexString `json:"created_at,omitempty"`
	Definition  any        `json:"definition,omitempty"`
}

// ConnectionRecord is one entry of the remote connection inventory.
type ConnectionRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// AgentReference addresses a chat completion by agent name and version
// instead of a raw model deployment. The two addressing modes are
// mutually exclusive in the remote contract.
type AgentReference struct {
	Type    string `json:"type"` // "agent_reference"
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InputMessage is one turn submitted to the responses API.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseRequest is the body of a non-streaming responses call.
// Exactly one of Agent or Model must be set.
type ResponseRequest struct {
	Input        []InputMessage  `json:"input"`
	Agent        *AgentReference `json:"agent,omitempty"`
	Model        string          `json:"model,omitempty"`
	Conversation string          `json:"conversation,omitempty"`
}

// Response is the structured (non-streamed) result of a responses call.
type Response struct {
	ID     string       `json:"id"`
	Output []OutputItem `json:"output"`
}

// OutputItem is one item of a response's output sequence. Items arrive in
// two shapes: bare content parts, or a typed "message" wrapper around
// content parts. Both carry text the same way.
type OutputItem struct {
	Type    string        `json:"type,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

// ContentPart is one piece of an output item's content.
type ContentPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// TextParts flattens a response's output into its text fragments,
// preserving output-item order and, within each item, content-part order.
func (r *Response) TextParts() []string {
	var parts []string
	for _, item := range r.Output {
		// Bare content-part items and typed "message" items carry text
		// the same way; items without content (tool traces, annotations)
		// have no user-facing text.
		if len(item.Content) == 0 {
			continue
		}
		for _, part := range item.Content {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	return parts
}

// AgentChatRequest opens an ephemeral streamed conversation: an agent
// defined on the fly from a name, instruction text, and model deployment.
type AgentChatRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	Conversation string `json:"conversation,omitempty"`
	Message      string `json:"message"`
}

// StreamEvent is a chunk from a streaming chat exchange.
type StreamEvent struct {
	Type  string `json:"type"`            // "delta", "done", "error"
	Text  string `json:"text,omitempty"`  // text delta
	Error string `json:"error,omitempty"` // error message (type="error")
}
