package persist

import "path/filepath"

// Persister saves and loads one snapshot type under a fixed basename.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister with the given basename and codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Path returns the file the persister uses inside dir.
func (p *Persister[T]) Path(dir string) string {
	return filepath.Join(dir, p.basename+p.codec.Extension())
}

// Save writes state into dir.
func (p *Persister[T]) Save(dir string, state T) error {
	return SaveState(dir, p.basename, p.codec, state)
}

// Load reads the snapshot from dir.
func (p *Persister[T]) Load(dir string) (T, error) {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)

	return state, err
}
