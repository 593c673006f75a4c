package sentiwordnet_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/internal/testfixture"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiwordnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/wordnet"
)

func fixture(t *testing.T) *sentiwordnet.Lexicon {
	t.Helper()

	dict, err := wordnet.OpenFS(testfixture.WordNet())
	require.NoError(t, err)

	lex, err := sentiwordnet.Parse(strings.NewReader(testfixture.SentiWordNet), dict)
	require.NoError(t, err)

	return lex
}

func TestResolve(t *testing.T) {
	t.Parallel()

	lex := fixture(t)

	tests := []struct {
		word string
		want sentiwordnet.Scores
		ok   bool
	}{
		{word: "good", want: sentiwordnet.Scores{Pos: 0.5}, ok: true},
		{word: "happy", want: sentiwordnet.Scores{Pos: 0.875}, ok: true},
		{word: "awful", want: sentiwordnet.Scores{Neg: 0.625}, ok: true},
		{word: "hates", want: sentiwordnet.Scores{Neg: 0.75}, ok: true},
		{word: "world", want: sentiwordnet.Scores{}, ok: true},
		{word: "news", ok: false},
		{word: "missing", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()

			got, ok := lex.Resolve(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want.Pos, got.Pos, 1e-9)
			assert.InDelta(t, tt.want.Neg, got.Neg, 1e-9)
		})
	}
}

func TestParseSkipsCommentsAndBlank(t *testing.T) {
	t.Parallel()

	lex := fixture(t)
	assert.Equal(t, 13, lex.Len())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := sentiwordnet.Parse(strings.NewReader("a\t01123148\tx\t0\tgood#1\tgloss\n"), nil)
	require.Error(t, err)

	_, err = sentiwordnet.Parse(strings.NewReader("a\tabc\t0\t0\tgood#1\tgloss\n"), nil)
	require.Error(t, err)
}

func TestResolveWithoutSynsets(t *testing.T) {
	t.Parallel()

	lex, err := sentiwordnet.Parse(strings.NewReader(testfixture.SentiWordNet), nil)
	require.NoError(t, err)

	_, ok := lex.Resolve("good")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "SentiWordNet_3.0.0.txt")
	require.NoError(t, os.WriteFile(path, []byte(testfixture.SentiWordNet), 0o600))

	lex, err := sentiwordnet.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 13, lex.Len())

	_, err = sentiwordnet.Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
}
