package handler

import (
	"github.com/samber/lo"
)

// MaxMessageLength is counted in characters, not bytes.
const MaxMessageLength = 4000

// SplitMessage cuts text into consecutive pieces of at most limit characters.
// Text within the limit, including the empty string, is returned whole.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	return lo.Map(lo.Chunk(runes, limit), func(chunk []rune, _ int) string {
		return string(chunk)
	})
}
