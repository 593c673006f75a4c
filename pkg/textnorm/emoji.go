package textnorm

import (
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

// GomojiDetector recognizes tokens made only of emoji.
type GomojiDetector struct{}

// IsEmoji reports whether token consists solely of emoji characters.
func (GomojiDetector) IsEmoji(token string) bool {
	if token == "" || isASCII(token) {
		return false
	}

	return gomoji.ContainsEmoji(token) && strings.TrimSpace(gomoji.RemoveEmojis(token)) == ""
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
