package vader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/pkg/vader"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	lex := vader.Default()

	assert.Positive(t, lex.Len())
	assert.True(t, lex.Contains("love"))
	assert.False(t, lex.Contains("zzzqqq"))

	v, ok := lex.Valence("love")
	require.True(t, ok)
	assert.Positive(t, v)

	v, ok = lex.Valence("hate")
	require.True(t, ok)
	assert.Negative(t, v)

	assert.Positive(t, lex.Compound("I love this, it is great"))
}

func TestDefaultIsPrivate(t *testing.T) {
	t.Parallel()

	first := vader.Default()
	_, err := first.Merge(strings.NewReader("spreadsentword\t1.5\t0.5\t[1, 2]\n"))
	require.NoError(t, err)

	assert.True(t, first.Contains("spreadsentword"))
	assert.False(t, vader.Default().Contains("spreadsentword"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	src := map[string]float64{"good": 1.9}
	lex := vader.New(src)
	src["bad"] = -2.5

	assert.Equal(t, 1, lex.Len())
	assert.Zero(t, lex.Compound("good"))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	lex := vader.New(map[string]float64{"good": 1.9})

	n, err := lex.Merge(strings.NewReader("# custom\ngood\t2.5\t0.1\t[2, 3]\n\nyay\t2.4\t0.4\t[2, 3]\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, _ := lex.Valence("good")
	assert.InDelta(t, 2.5, v, 1e-9)
	assert.True(t, lex.Contains("yay"))

	_, err = lex.Merge(strings.NewReader("oops\n"))
	require.Error(t, err)

	_, err = lex.Merge(strings.NewReader("oops\tx\n"))
	require.Error(t, err)
}

func TestMergeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("meh\t-0.5\t0.3\t[0, -1]\n"), 0o600))

	lex := vader.New(nil)
	n, err := lex.MergeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = lex.MergeFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
