// Package ngram builds contiguous token windows and partitions them into the
// four lexicon tiers used by the polarity resolver.
package ngram

import "strings"

// DefaultMaxN is the largest window size produced and resolved.
const DefaultMaxN = 4

// Separators used in the two n-gram forms.
const (
	// FlatSeparator joins tokens in the flat n-gram list.
	FlatSeparator = " "
	// KeySeparator joins tokens of a multi-word lexicon key.
	KeySeparator = "_"
)

// Set holds the n-grams of one text unit split by word count.
// Multi-word entries use the lexicon key form ("out_of_this_world").
type Set struct {
	Unigrams  []string `json:"unigrams"`
	Bigrams   []string `json:"bigrams"`
	Trigrams  []string `json:"trigrams"`
	Fourgrams []string `json:"fourgrams"`
}

// Len returns the total number of n-grams across all tiers.
func (s Set) Len() int {
	return len(s.Unigrams) + len(s.Bigrams) + len(s.Trigrams) + len(s.Fourgrams)
}

// Tiers returns the multi-word tiers from longest to shortest.
func (s Set) Tiers() [][]string {
	return [][]string{s.Fourgrams, s.Trigrams, s.Bigrams}
}

// Generate returns every contiguous window of 1..maxN tokens, ordered by
// window size and then by start position. Windows are space-joined.
// A non-positive maxN yields nil.
func Generate(tokens []string, maxN int) []string {
	if maxN <= 0 || len(tokens) == 0 {
		return nil
	}

	out := make([]string, 0, capacity(len(tokens), maxN))

	for size := 1; size <= maxN; size++ {
		for start := 0; start+size <= len(tokens); start++ {
			out = append(out, strings.Join(tokens[start:start+size], FlatSeparator))
		}
	}

	return out
}

func capacity(tokens, maxN int) int {
	total := 0

	for size := 1; size <= maxN && size <= tokens; size++ {
		total += tokens - size + 1
	}

	return total
}

// Split partitions flat n-grams by word count. Entries with more than
// DefaultMaxN words, or no words at all, are dropped.
func Split(flat []string) Set {
	var set Set

	for _, gram := range flat {
		words := strings.Fields(gram)

		switch len(words) {
		case 1:
			set.Unigrams = append(set.Unigrams, words[0])
		case 2:
			set.Bigrams = append(set.Bigrams, Key(words))
		case 3:
			set.Trigrams = append(set.Trigrams, Key(words))
		case DefaultMaxN:
			set.Fourgrams = append(set.Fourgrams, Key(words))
		}
	}

	return set
}

// Key joins words into the lexicon key form.
func Key(words []string) string {
	return strings.Join(words, KeySeparator)
}

// Words splits a lexicon key or flat n-gram back into its words.
func Words(term string) []string {
	return strings.FieldsFunc(term, func(r rune) bool {
		return r == '_' || r == ' '
	})
}

// SubGrams returns every strict contiguous sub-window of term, sizes
// 1..n-1, in key form. Single words have no sub-grams.
func SubGrams(term string) []string {
	words := Words(term)
	if len(words) < 2 {
		return nil
	}

	var subs []string

	for size := 1; size < len(words); size++ {
		for start := 0; start+size <= len(words); start++ {
			subs = append(subs, Key(words[start:start+size]))
		}
	}

	return subs
}
