package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "support", "support"},
		{"spaces become hyphens", "Customer Support", "Customer-Support"},
		{"punctuation stripped", "FAQ Bot!!", "FAQ-Bot"},
		{"runs collapse", "a---b___c", "a-b-c"},
		{"leading and trailing trimmed", "  hello  ", "hello"},
		{"empty input", "", "agent"},
		{"nothing salvageable", "!!!", "agent"},
		{"unicode stripped", "café münchen", "caf-m-nchen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.input))
		})
	}
}

func TestSanitizeName_Truncation(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := SanitizeName(long)
	assert.Len(t, got, 63)

	// Truncation must not leave a trailing hyphen.
	boundary := strings.Repeat("a", 62) + "-" + strings.Repeat("b", 40)
	got = SanitizeName(boundary)
	assert.Equal(t, strings.Repeat("a", 62), got)
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{"Customer Support", "FAQ Bot!!", "!!!", strings.Repeat("x-", 60), "ok"}
	for _, in := range inputs {
		once := SanitizeName(in)
		assert.Equal(t, once, SanitizeName(once), "input %q", in)
	}
}
