package agent

import (
	"fmt"
	"strings"
)

// DefaultPersonality is used when a creation request gives none.
const DefaultPersonality = "professional and friendly"

// defaultCapabilities substitutes for an empty capability list.
var defaultCapabilities = []string{
	"Answer questions clearly and concisely",
	"Help the user with their requests",
}

// defaultRules substitutes for an empty rule list.
var defaultRules = []string{
	"Always keep a professional and respectful tone",
	"If you don't know something, admit it honestly",
	"Be concise but complete in your answers",
	"Use emoji when appropriate to keep the conversation friendly",
}

// InstructionSpec is the input to ComposeInstructions.
type InstructionSpec struct {
	Purpose      string   // required, free text
	Personality  string   // defaults to DefaultPersonality
	Capabilities []string // rendered as bullets, in order
	Rules        []string // rendered as a numbered list, in order
}

// ComposeInstructions assembles one instruction document from a purpose,
// personality, capability, and rule set. The four labeled sections and
// the closing response-format section always appear in the same order.
// Pure: unconstrained string input always succeeds.
func ComposeInstructions(spec InstructionSpec) string {
	personality := spec.Personality
	if personality == "" {
		personality = DefaultPersonality
	}

	capabilities := spec.Capabilities
	if len(capabilities) == 0 {
		capabilities = defaultCapabilities
	}

	rules := spec.Rules
	if len(rules) == 0 {
		rules = defaultRules
	}

	var b strings.Builder
	b.WriteString("You are a specialized assistant with the following purpose:\n\n")

	b.WriteString("MAIN PURPOSE:\n")
	b.WriteString(spec.Purpose)
	b.WriteString("\n\n")

	b.WriteString("PERSONALITY:\n")
	b.WriteString(personality)
	b.WriteString("\n\n")

	b.WriteString("CAPABILITIES:\n")
	for i, cap := range capabilities {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(cap)
	}
	b.WriteString("\n\n")

	b.WriteString("BEHAVIOR RULES:\n")
	for i, rule := range rules {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, rule)
	}
	b.WriteString("\n\n")

	b.WriteString("RESPONSE FORMAT:\n")
	b.WriteString("- Answer in a clear, structured way\n")
	b.WriteString("- Use bullets or numbering when appropriate\n")
	b.WriteString("- Include examples when they help clarify\n")

	return b.String()
}
