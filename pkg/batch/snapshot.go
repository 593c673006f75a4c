package batch

import (
	"fmt"

	"github.com/Sumatoshi-tech/spreadsent/pkg/persist"
)

// Snapshot basenames written by WriteOutputs.
const (
	NGramsBasename     = "ngrams"
	ScoresBasename     = "scores"
	AggregatesBasename = "aggregates"
)

// SaveSnapshot writes v to path. A nil codec is chosen from the extension.
func SaveSnapshot(path string, codec persist.Codec, v any) error {
	codec, err := codecFor(path, codec)
	if err != nil {
		return err
	}

	return persist.WriteFile(path, codec, v)
}

// LoadSnapshot reads path into v, which must be a pointer.
func LoadSnapshot(path string, codec persist.Codec, v any) error {
	codec, err := codecFor(path, codec)
	if err != nil {
		return err
	}

	return persist.ReadFile(path, codec, v)
}

func codecFor(path string, codec persist.Codec) (persist.Codec, error) {
	if codec != nil {
		return codec, nil
	}

	codec, err := persist.CodecForPath(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	return codec, nil
}

// Outputs are the per-stage persisters of a run directory.
type Outputs struct {
	NGrams     *persist.Persister[Corpus]
	Scores     *persist.Persister[Scores]
	Aggregates *persist.Persister[Aggregates]
}

// NewOutputs returns persisters using codec for every stage.
func NewOutputs(codec persist.Codec) Outputs {
	return Outputs{
		NGrams:     persist.NewPersister[Corpus](NGramsBasename, codec),
		Scores:     persist.NewPersister[Scores](ScoresBasename, codec),
		Aggregates: persist.NewPersister[Aggregates](AggregatesBasename, codec),
	}
}

// Save writes every part of res into dir.
func (o Outputs) Save(dir string, res Result) error {
	err := o.NGrams.Save(dir, res.Corpus)
	if err != nil {
		return fmt.Errorf("save ngrams: %w", err)
	}

	err = o.Scores.Save(dir, res.Scores)
	if err != nil {
		return fmt.Errorf("save scores: %w", err)
	}

	err = o.Aggregates.Save(dir, res.Aggregates)
	if err != nil {
		return fmt.Errorf("save aggregates: %w", err)
	}

	return nil
}

// Load reads a run directory written by Save.
func (o Outputs) Load(dir string) (Result, error) {
	corpus, err := o.NGrams.Load(dir)
	if err != nil {
		return Result{}, fmt.Errorf("load ngrams: %w", err)
	}

	scores, err := o.Scores.Load(dir)
	if err != nil {
		return Result{}, fmt.Errorf("load scores: %w", err)
	}

	aggregates, err := o.Aggregates.Load(dir)
	if err != nil {
		return Result{}, fmt.Errorf("load aggregates: %w", err)
	}

	return Result{Corpus: corpus, Scores: scores, Aggregates: aggregates}, nil
}
