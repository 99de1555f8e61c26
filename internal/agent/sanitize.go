package agent

import (
	"regexp"
	"strings"
)

// maxNameLength is the remote service's identifier length limit.
const maxNameLength = 63

// fallbackName is used when sanitization consumes the whole input.
const fallbackName = "agent"

// invalidNameCharRe matches every character outside the remote naming
// grammar's alphabet.
var invalidNameCharRe = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// hyphenRunRe matches runs of consecutive hyphens.
var hyphenRunRe = regexp.MustCompile(`-+`)

// SanitizeName normalizes a free-text display name into an identifier the
// remote service accepts: starts and ends alphanumeric, single internal
// hyphens only, at most 63 characters. The function is total and
// idempotent; an input with no salvageable characters yields "agent".
func SanitizeName(name string) string {
	sanitized := invalidNameCharRe.ReplaceAllString(name, "-")
	sanitized = hyphenRunRe.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")
	if len(sanitized) > maxNameLength {
		sanitized = sanitized[:maxNameLength]
	}
	// Truncation can reintroduce a trailing hyphen.
	sanitized = strings.TrimRight(sanitized, "-")
	if sanitized == "" {
		return fallbackName
	}
	return sanitized
}
