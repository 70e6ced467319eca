package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// TrimInputString keeps the caller's casing; used for titles and free text
// where lowercasing would mangle user content.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}

// SplitCommaList turns a comma separated input into trimmed, non-empty items.
func SplitCommaList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
