package log

import (
	"strings"
)

const redactKeep = 4

// RedactString masks s keeping only a few leading and trailing runes, so
// tokens can be correlated in logs without being leaked.
func RedactString(s string) string {
	runes := []rune(s)
	if len(runes) <= redactKeep*2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:redactKeep]) + strings.Repeat("*", len(runes)-redactKeep*2) + string(runes[len(runes)-redactKeep:])
}
