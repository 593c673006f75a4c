package polarity

import "github.com/Sumatoshi-tech/spreadsent/pkg/sentiwordnet"

// Sources name the lexicon a contribution came from.
const (
	SourceSenticNet    = "senticnet"
	SourceSentiWordNet = "sentiwordnet"
	SourceVADER        = "vader"
)

// DefaultValenceDivisor maps VADER's -4..+4 valence onto -1..+1.
const DefaultValenceDivisor = 4.0

// Polarity is a positive/negative score pair.
type Polarity struct {
	Pos float64 `json:"pos"`
	Neg float64 `json:"neg"`
}

// Net returns Pos - Neg.
func (p Polarity) Net() float64 { return p.Pos - p.Neg }

// IsZero reports whether both components are zero.
func (p Polarity) IsZero() bool { return p.Pos == 0 && p.Neg == 0 }

// FromScalar splits a signed scalar into a pair.
func FromScalar(v float64) Polarity {
	return Polarity{Pos: max(v, 0), Neg: max(-v, 0)}
}

// Strategy resolves a single word to a polarity. ok is false when the
// strategy has nothing to say about the word.
type Strategy interface {
	Name() string
	Resolve(word string) (p Polarity, ok bool)
}

// ConceptLexicon holds signed concept polarities keyed by lexicon term.
type ConceptLexicon interface {
	Polarity(term string) (float64, bool)
}

// SenseLexicon resolves a word to the scores of its first scored sense.
type SenseLexicon interface {
	Resolve(word string) (sentiwordnet.Scores, bool)
}

// ValenceLexicon holds raw valences.
type ValenceLexicon interface {
	Valence(term string) (float64, bool)
}

// SenseStrategy reads sense-level scores.
type SenseStrategy struct {
	Lexicon SenseLexicon
}

// Name implements Strategy.
func (SenseStrategy) Name() string { return SourceSentiWordNet }

// Resolve implements Strategy.
func (s SenseStrategy) Resolve(word string) (Polarity, bool) {
	scores, ok := s.Lexicon.Resolve(word)
	if !ok {
		return Polarity{}, false
	}

	return Polarity{Pos: scores.Pos, Neg: scores.Neg}, true
}

// ConceptStrategy reads concept polarity scalars.
type ConceptStrategy struct {
	Lexicon ConceptLexicon
}

// Name implements Strategy.
func (ConceptStrategy) Name() string { return SourceSenticNet }

// Resolve implements Strategy.
func (s ConceptStrategy) Resolve(word string) (Polarity, bool) {
	v, ok := s.Lexicon.Polarity(word)
	if !ok {
		return Polarity{}, false
	}

	return FromScalar(v), true
}

// ValenceStrategy reads valences scaled down by Divisor.
type ValenceStrategy struct {
	Lexicon ValenceLexicon
	Divisor float64
}

// Name implements Strategy.
func (ValenceStrategy) Name() string { return SourceVADER }

// Resolve implements Strategy.
func (s ValenceStrategy) Resolve(word string) (Polarity, bool) {
	v, ok := s.Lexicon.Valence(word)
	if !ok {
		return Polarity{}, false
	}

	div := s.Divisor
	if div == 0 {
		div = DefaultValenceDivisor
	}

	return FromScalar(v / div), true
}

// DefaultChain returns the standard fallback order: sense scores, then
// concept polarity, then scaled valence.
func DefaultChain(senses SenseLexicon, concepts ConceptLexicon, valence ValenceLexicon, divisor float64) []Strategy {
	return []Strategy{
		SenseStrategy{Lexicon: senses},
		ConceptStrategy{Lexicon: concepts},
		ValenceStrategy{Lexicon: valence, Divisor: divisor},
	}
}
