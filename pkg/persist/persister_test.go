package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type corpus map[string][][]string

func TestPersister_SaveLoad(t *testing.T) {
	t.Parallel()

	codecs := []Codec{NewJSONCodec(), NewGobCodec(), NewLZ4Codec()}

	for _, codec := range codecs {
		t.Run(codec.Extension(), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			p := NewPersister[corpus]("ngrams", codec)

			original := corpus{"alice": {{"fake", "news", "fake news"}, {}}}

			require.NoError(t, p.Save(dir, original))
			assert.Equal(t, filepath.Join(dir, "ngrams"+codec.Extension()), p.Path(dir))
			assert.FileExists(t, p.Path(dir))

			restored, err := p.Load(dir)
			require.NoError(t, err)
			assert.Equal(t, original["alice"][0], restored["alice"][0])
			assert.Len(t, restored["alice"], 2)
		})
	}
}

func TestPersister_LoadMissing(t *testing.T) {
	t.Parallel()

	p := NewPersister[corpus]("absent", NewJSONCodec())

	_, err := p.Load(t.TempDir())
	require.Error(t, err)
}
