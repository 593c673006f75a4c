package textnorm

import "unicode"

// SmartLemma maps a token to its lemma. Tokens known to the valence
// vocabulary and emoji are kept verbatim, alphabetic tokens are reduced to
// their noun lemma, and everything else is dropped (ok is false).
func SmartLemma(token string, vocab Vocabulary, emoji EmojiDetector, lem Lemmatizer) (string, bool) {
	switch {
	case vocab.Contains(token):
		return token, true
	case emoji.IsEmoji(token):
		return token, true
	case isAlpha(token):
		return lem.Lemma(token), true
	default:
		return "", false
	}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	return true
}
