package sentiment_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/internal/testfixture"
	"github.com/Sumatoshi-tech/spreadsent/pkg/polarity"
	"github.com/Sumatoshi-tech/spreadsent/pkg/senticnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiment"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiwordnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/vader"
	"github.com/Sumatoshi-tech/spreadsent/pkg/wordnet"
)

func fixtureResources(t *testing.T) *sentiment.Resources {
	t.Helper()

	dict, err := wordnet.OpenFS(testfixture.WordNet())
	require.NoError(t, err)

	swn, err := sentiwordnet.Parse(strings.NewReader(testfixture.SentiWordNet), dict)
	require.NoError(t, err)

	sn, _, err := senticnet.Parse(strings.NewReader(testfixture.SenticNet))
	require.NoError(t, err)

	return &sentiment.Resources{
		SenticNet:    sn,
		WordNet:      dict,
		SentiWordNet: swn,
		Vader:        vader.New(testfixture.Valence()),
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	engine := sentiment.NewEngine(fixtureResources(t), sentiment.Options{})

	got, err := engine.Analyze("This news is out of this world!!! 😀")
	require.NoError(t, err)

	assert.Equal(t, []string{"this", "news", "is", "out", "of", "this", "world", "😀"}, got.Tokens)
	assert.Contains(t, got.NGrams, "out of this world")
	assert.InDelta(t, 0.6, got.Score, 1e-9)

	sources := map[string]string{}
	for _, c := range got.Contributions {
		sources[c.Term] = c.Source
	}

	assert.Equal(t, map[string]string{
		"out_of_this_world": polarity.SourceSenticNet,
		"news":              polarity.SourceSenticNet,
		"😀":                 polarity.SourceVADER,
	}, sources)
}

func TestScoreNGramsMatchesAnalyze(t *testing.T) {
	t.Parallel()

	engine := sentiment.NewEngine(fixtureResources(t), sentiment.Options{})

	for _, text := range []string{
		"I'm not happy about this fake news",
		"never love bad dogs",
		"",
		"http://t.co/only-a-link",
	} {
		flat, err := engine.NGrams(text)
		require.NoError(t, err)

		full, err := engine.Analyze(text)
		require.NoError(t, err)

		assert.InDelta(t, full.Score, engine.ScoreNGrams(flat), 1e-12, text)
	}
}

func TestAnalyzeNegation(t *testing.T) {
	t.Parallel()

	engine := sentiment.NewEngine(fixtureResources(t), sentiment.Options{})

	tokens, err := engine.Tokens("not happy")
	require.NoError(t, err)
	assert.Equal(t, []string{"unhappy"}, tokens)

	got, err := engine.Analyze("not happy")
	require.NoError(t, err)
	assert.InDelta(t, -0.75, got.Score, 1e-9)
}

func TestEngineWithoutSentiWordNet(t *testing.T) {
	t.Parallel()

	res := fixtureResources(t)
	res.SentiWordNet = nil

	engine := sentiment.NewEngine(res, sentiment.Options{ValenceDivisor: 2})

	got, err := engine.Analyze("happy")
	require.NoError(t, err)
	assert.InDelta(t, 1.35, got.Score, 1e-9)
	assert.NotContains(t, res.Counts(), sentiment.LexiconSentiWordNet)
}

func TestLoadResources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wnDir := filepath.Join(dir, "wordnet")
	require.NoError(t, os.MkdirAll(wnDir, 0o755))

	for name, f := range testfixture.WordNet() {
		require.NoError(t, os.WriteFile(filepath.Join(wnDir, name), f.Data, 0o600))
	}

	snPath := filepath.Join(dir, "senticnet.py")
	require.NoError(t, os.WriteFile(snPath, []byte(testfixture.SenticNet), 0o600))

	swnPath := filepath.Join(dir, "SentiWordNet_3.0.0.txt")
	require.NoError(t, os.WriteFile(swnPath, []byte(testfixture.SentiWordNet), 0o600))

	extra := filepath.Join(dir, "extra_vader.txt")
	require.NoError(t, os.WriteFile(extra, []byte("spreadsentyay\t2.0\t0.1\t[2]\n"), 0o600))

	res, err := sentiment.LoadResources(context.Background(), sentiment.Paths{
		SenticNet:    snPath,
		WordNetDir:   wnDir,
		SentiWordNet: swnPath,
		VaderExtra:   extra,
	}, nil)
	require.NoError(t, err)

	counts := res.Counts()
	assert.Equal(t, 5, counts[sentiment.LexiconSenticNet])
	assert.Equal(t, 13, counts[sentiment.LexiconSentiWordNet])
	assert.Positive(t, counts[sentiment.LexiconVADER])
	assert.True(t, res.Vader.Contains("spreadsentyay"))
	assert.True(t, res.WordNet.IsWord("dogs"))
}

func TestLoadResourcesErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := sentiment.LoadResources(ctx, sentiment.Paths{WordNetDir: "x"}, nil)
	require.ErrorIs(t, err, sentiment.ErrMissingSenticNet)

	_, err = sentiment.LoadResources(ctx, sentiment.Paths{SenticNet: "x.py"}, nil)
	require.ErrorIs(t, err, sentiment.ErrMissingWordNet)

	_, err = sentiment.LoadResources(ctx, sentiment.Paths{
		SenticNet:  filepath.Join(t.TempDir(), "missing.py"),
		WordNetDir: t.TempDir(),
	}, nil)
	require.Error(t, err)
}

func TestEngineTokenCache(t *testing.T) {
	t.Parallel()

	cached := sentiment.NewEngine(fixtureResources(t), sentiment.Options{CacheSize: 8})
	plain := sentiment.NewEngine(fixtureResources(t), sentiment.Options{})

	_, ok := plain.CacheStats()
	assert.False(t, ok)

	const text = "I love this day :)"

	want, err := plain.NGrams(text)
	require.NoError(t, err)

	for range 3 {
		got, err := cached.NGrams(text)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	tokens, err := cached.Tokens(text)
	require.NoError(t, err)

	tokens[0] = "mutated"

	again, err := cached.NGrams(text)
	require.NoError(t, err)
	assert.Equal(t, want, again)

	stats, ok := cached.CacheStats()
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(4), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
}
