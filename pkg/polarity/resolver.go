// Package polarity scores one text unit from its n-grams. Multi-word
// concepts are matched longest first and suppress the n-grams they contain;
// remaining single words fall back through an ordered chain of lexicons.
package polarity

import (
	"github.com/Sumatoshi-tech/spreadsent/pkg/alg/stats"
	"github.com/Sumatoshi-tech/spreadsent/pkg/ngram"
)

// DefaultPrecision is the number of decimals kept in a score.
const DefaultPrecision = 4

// Tier names used in contributions.
const (
	TierFourgram = "fourgram"
	TierTrigram  = "trigram"
	TierBigram   = "bigram"
	TierUnigram  = "unigram"
)

var multiWordTiers = []string{TierFourgram, TierTrigram, TierBigram}

// Contribution is one n-gram that entered a score.
type Contribution struct {
	Term   string  `json:"term"`
	Tier   string  `json:"tier"`
	Source string  `json:"source"`
	Value  float64 `json:"value"`
}

// Explanation is a score together with the n-grams that produced it.
type Explanation struct {
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Resolver computes unit scores. It holds no per-call state and is safe for
// concurrent use when its lexicons are.
type Resolver struct {
	concepts  ConceptLexicon
	chain     []Strategy
	precision int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrecision sets the number of decimals kept in scores.
func WithPrecision(digits int) Option {
	return func(r *Resolver) { r.precision = digits }
}

// NewResolver builds a resolver matching multi-word n-grams against
// concepts and single words against chain, in order.
func NewResolver(concepts ConceptLexicon, chain []Strategy, opts ...Option) *Resolver {
	r := &Resolver{concepts: concepts, chain: chain, precision: DefaultPrecision}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Score returns the mean net polarity of the matched n-grams, rounded.
// A unit where nothing matched scores 0, the same as one whose matches
// cancel out.
func (r *Resolver) Score(set ngram.Set) float64 {
	return r.Explain(set).Score
}

// Explain scores set and reports every contributing n-gram.
func (r *Resolver) Explain(set ngram.Set) Explanation {
	used := make(map[string]struct{})
	blocked := make(map[string]struct{})

	var (
		sum float64
		out []Contribution
	)

	for i, tier := range set.Tiers() {
		for _, term := range tier {
			if skip(term, used, blocked) {
				continue
			}

			v, ok := r.concepts.Polarity(term)
			if !ok {
				continue
			}

			sum += v
			out = append(out, Contribution{Term: term, Tier: multiWordTiers[i], Source: SourceSenticNet, Value: v})
			used[term] = struct{}{}

			for _, sub := range ngram.SubGrams(term) {
				blocked[sub] = struct{}{}
			}
		}
	}

	for _, word := range set.Unigrams {
		if skip(word, used, blocked) {
			continue
		}

		p, source, ok := r.resolveWord(word)
		if !ok || p.IsZero() {
			continue
		}

		sum += p.Net()
		out = append(out, Contribution{Term: word, Tier: TierUnigram, Source: source, Value: p.Net()})
		used[word] = struct{}{}
	}

	if len(out) == 0 {
		return Explanation{}
	}

	return Explanation{
		Score:         stats.Round(sum/float64(len(out)), r.precision),
		Contributions: out,
	}
}

// resolveWord returns the result of the first strategy that knows word.
func (r *Resolver) resolveWord(word string) (Polarity, string, bool) {
	for _, s := range r.chain {
		if p, ok := s.Resolve(word); ok {
			return p, s.Name(), true
		}
	}

	return Polarity{}, "", false
}

func skip(term string, used, blocked map[string]struct{}) bool {
	if _, ok := used[term]; ok {
		return true
	}

	_, ok := blocked[term]

	return ok
}
