// Package textnorm turns a raw post into a clean token sequence: noise
// removal, contraction expansion, tweet-aware tokenization, elongation
// reduction, lemmatization and negation handling, always in that order.
package textnorm

import (
	"errors"
	"fmt"
)

// ErrNormalize wraps failures raised by a collaborator while normalizing.
var ErrNormalize = errors.New("normalize text")

// Dictionary recognizes dictionary words.
type Dictionary interface {
	IsWord(word string) bool
}

// Lemmatizer maps a word to its base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Thesaurus lists antonyms of a word, most relevant first.
type Thesaurus interface {
	Antonyms(word string) []string
}

// Vocabulary reports membership in the valence lexicon.
type Vocabulary interface {
	Contains(term string) bool
}

// EmojiDetector recognizes emoji tokens.
type EmojiDetector interface {
	IsEmoji(token string) bool
}

// Deps are the lexical resources the normalizer consults.
type Deps struct {
	Dictionary Dictionary
	Lemmatizer Lemmatizer
	Thesaurus  Thesaurus
	Vocabulary Vocabulary
	Emoji      EmojiDetector
}

// Config tunes the normalizer.
type Config struct {
	// MaxRun caps repeated characters during tokenization.
	MaxRun int
	// NegationCues trigger antonym substitution.
	NegationCues []string
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{MaxRun: DefaultMaxRun, NegationCues: DefaultNegationCues}
}

// Normalizer is safe for concurrent use when its dependencies are.
type Normalizer struct {
	deps      Deps
	tokenizer *Tokenizer
	cues      map[string]struct{}
}

// New builds a normalizer. A nil Emoji detector defaults to GomojiDetector.
func New(deps Deps, cfg Config) *Normalizer {
	if deps.Emoji == nil {
		deps.Emoji = GomojiDetector{}
	}

	if cfg.NegationCues == nil {
		cfg.NegationCues = DefaultNegationCues
	}

	return &Normalizer{
		deps:      deps,
		tokenizer: NewTokenizer(cfg.MaxRun),
		cues:      cueSet(cfg.NegationCues),
	}
}

// Normalize returns the token sequence of raw. Blank input yields no tokens.
func (n *Normalizer) Normalize(raw string) (tokens []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("%w: %v", ErrNormalize, r)
		}
	}()

	text := ExpandContractions(StripNoise(raw))

	words := n.tokenizer.Tokenize(text)
	kept := make([]string, 0, len(words))

	for _, w := range words {
		w = ReduceElongation(w, n.deps.Dictionary)

		lemma, ok := SmartLemma(w, n.deps.Vocabulary, n.deps.Emoji, n.deps.Lemmatizer)
		if ok {
			kept = append(kept, lemma)
		}
	}

	return ReplaceNegations(kept, n.cues, n.deps.Thesaurus), nil
}
