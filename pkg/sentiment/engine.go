package sentiment

import (
	"slices"

	"github.com/Sumatoshi-tech/spreadsent/pkg/alg/lru"
	"github.com/Sumatoshi-tech/spreadsent/pkg/ngram"
	"github.com/Sumatoshi-tech/spreadsent/pkg/polarity"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiwordnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/textnorm"
)

// Options tune an Engine. Zero values select the defaults.
type Options struct {
	Normalizer     textnorm.Config
	MaxN           int
	Precision      int
	ValenceDivisor float64
	// CacheSize memoizes the tokens of that many distinct texts. Zero
	// disables the cache.
	CacheSize int
}

// Engine normalizes text and scores it. It is safe for concurrent use.
type Engine struct {
	normalizer *textnorm.Normalizer
	resolver   *polarity.Resolver
	res        *Resources
	maxN       int
	cache      *lru.Cache[string, []string]
}

// Analysis is the full result of scoring one text.
type Analysis struct {
	Tokens        []string                `json:"tokens"`
	NGrams        []string                `json:"ngrams"`
	Score         float64                 `json:"score"`
	Contributions []polarity.Contribution `json:"contributions"`
	// Compound is the sentence-level VADER score of the raw text, for reference.
	Compound float64 `json:"vader_compound"`
}

// NewEngine builds an engine over res.
func NewEngine(res *Resources, opts Options) *Engine {
	if opts.MaxN <= 0 {
		opts.MaxN = ngram.DefaultMaxN
	}

	if opts.Precision <= 0 {
		opts.Precision = polarity.DefaultPrecision
	}

	if opts.ValenceDivisor == 0 {
		opts.ValenceDivisor = polarity.DefaultValenceDivisor
	}

	var senses polarity.SenseLexicon = noSenses{}
	if res.SentiWordNet != nil {
		senses = res.SentiWordNet
	}

	chain := polarity.DefaultChain(senses, res.SenticNet, res.Vader, opts.ValenceDivisor)

	e := &Engine{
		normalizer: textnorm.New(textnorm.Deps{
			Dictionary: res.WordNet,
			Lemmatizer: res.WordNet,
			Thesaurus:  res.WordNet,
			Vocabulary: res.Vader,
		}, opts.Normalizer),
		resolver: polarity.NewResolver(res.SenticNet, chain, polarity.WithPrecision(opts.Precision)),
		res:      res,
		maxN:     opts.MaxN,
	}

	if opts.CacheSize > 0 {
		e.cache = lru.New[string, []string](opts.CacheSize)
	}

	return e
}

// Tokens normalizes text.
func (e *Engine) Tokens(text string) ([]string, error) {
	tokens, err := e.tokens(text)
	if err != nil {
		return nil, err
	}

	return slices.Clone(tokens), nil
}

// CacheStats reports the token cache counters. ok is false when the cache
// is disabled.
func (e *Engine) CacheStats() (stats lru.Stats, ok bool) {
	if e.cache == nil {
		return lru.Stats{}, false
	}

	return e.cache.Stats(), true
}

// tokens returns the normalized tokens of text. The result may be shared
// with the cache and must not be modified.
func (e *Engine) tokens(text string) ([]string, error) {
	if e.cache == nil {
		return e.normalizer.Normalize(text)
	}

	if tokens, ok := e.cache.Get(text); ok {
		return tokens, nil
	}

	tokens, err := e.normalizer.Normalize(text)
	if err != nil {
		return nil, err
	}

	e.cache.Put(text, tokens)

	return tokens, nil
}

// NGrams normalizes text and returns its flat n-grams.
func (e *Engine) NGrams(text string) ([]string, error) {
	tokens, err := e.tokens(text)
	if err != nil {
		return nil, err
	}

	return ngram.Generate(tokens, e.maxN), nil
}

// ScoreNGrams scores a unit from its flat n-grams.
func (e *Engine) ScoreNGrams(flat []string) float64 {
	return e.resolver.Score(ngram.Split(flat))
}

// Analyze runs the whole pipeline on text.
func (e *Engine) Analyze(text string) (Analysis, error) {
	tokens, err := e.Tokens(text)
	if err != nil {
		return Analysis{}, err
	}

	flat := ngram.Generate(tokens, e.maxN)
	exp := e.resolver.Explain(ngram.Split(flat))

	return Analysis{
		Tokens:        tokens,
		NGrams:        flat,
		Score:         exp.Score,
		Contributions: exp.Contributions,
		Compound:      e.res.Vader.Compound(text),
	}, nil
}

type noSenses struct{}

func (noSenses) Resolve(string) (sentiwordnet.Scores, bool) { return sentiwordnet.Scores{}, false }
