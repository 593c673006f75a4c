package textnorm

// DefaultNegationCues are the tokens that trigger antonym substitution.
var DefaultNegationCues = []string{"not", "never"}

// ReplaceNegations scans tokens left to right. A cue followed by a token
// that has an antonym is replaced, together with that token, by the first
// antonym; otherwise tokens pass through unchanged.
func ReplaceNegations(tokens []string, cues map[string]struct{}, thes Thesaurus) []string {
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		if _, isCue := cues[tokens[i]]; isCue && i+1 < len(tokens) {
			if ants := thes.Antonyms(tokens[i+1]); len(ants) > 0 {
				out = append(out, ants[0])
				i += 2

				continue
			}
		}

		out = append(out, tokens[i])
		i++
	}

	return out
}

func cueSet(cues []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cues))
	for _, c := range cues {
		set[c] = struct{}{}
	}

	return set
}
