package foundry

import "encoding/json"

// DefinitionInfo is the single internal view of a remote agent
// definition. All raw-shape probing happens in NormalizeDefinition;
// nothing downstream inspects remote payloads again.
type DefinitionInfo struct {
	Model        string
	Instructions string
	ToolTypes    []string // one kind tag per attached tool, in order
}

// HasTools reports whether the definition carries any tools.
func (d DefinitionInfo) HasTools() bool { return len(d.ToolTypes) > 0 }

// HasToolType reports whether any attached tool carries the given kind tag.
func (d DefinitionInfo) HasToolType(kind string) bool {
	for _, t := range d.ToolTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// unknownToolType tags tool entries whose kind the remote left out.
const unknownToolType = "unknown"

// NormalizeDefinition resolves the remote definition's two serializations
// into one DefinitionInfo. The remote hands back either a keyed JSON
// mapping (map[string]any, or raw JSON bytes) or the typed
// PromptAgentDefinition struct; both are boundary variants of the same
// concept and must produce identical results.
func NormalizeDefinition(def any) DefinitionInfo {
	switch v := def.(type) {
	case nil:
		return DefinitionInfo{}
	case *PromptAgentDefinition:
		if v == nil {
			return DefinitionInfo{}
		}
		return normalizeTyped(*v)
	case PromptAgentDefinition:
		return normalizeTyped(v)
	case map[string]any:
		return normalizeMapping(v)
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(v, &m); err != nil {
			return DefinitionInfo{}
		}
		return normalizeMapping(m)
	default:
		return DefinitionInfo{}
	}
}

func normalizeTyped(def PromptAgentDefinition) DefinitionInfo {
	info := DefinitionInfo{
		Model:        def.Model,
		Instructions: def.Instructions,
	}
	for _, tool := range def.Tools {
		kind := tool.Type
		if kind == "" {
			kind = unknownToolType
		}
		info.ToolTypes = append(info.ToolTypes, kind)
	}
	return info
}

func normalizeMapping(def map[string]any) DefinitionInfo {
	var info DefinitionInfo
	if model, ok := def["model"].(string); ok {
		info.Model = model
	}
	if instructions, ok := def["instructions"].(string); ok {
		info.Instructions = instructions
	}

	tools, ok := def["tools"].([]any)
	if !ok {
		return info
	}
	for _, raw := range tools {
		kind := unknownToolType
		if entry, ok := raw.(map[string]any); ok {
			if t, ok := entry["type"].(string); ok && t != "" {
				kind = t
			}
		}
		info.ToolTypes = append(info.ToolTypes, kind)
	}
	return info
}
