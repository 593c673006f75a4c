// Package sentiment wires the lexicons, the text normalizer, the n-gram
// generator and the polarity resolver into a single text scoring engine.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/spreadsent/pkg/senticnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiwordnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/vader"
	"github.com/Sumatoshi-tech/spreadsent/pkg/wordnet"
)

// Lexicon names used in logs and metrics.
const (
	LexiconSenticNet    = "senticnet"
	LexiconWordNet      = "wordnet"
	LexiconSentiWordNet = "sentiwordnet"
	LexiconVADER        = "vader"
)

// Resource loading errors.
var (
	ErrMissingSenticNet = errors.New("senticnet lexicon path is required")
	ErrMissingWordNet   = errors.New("wordnet directory is required")
)

// Paths locate the lexicon files on disk.
type Paths struct {
	SenticNet          string
	SenticNetContainer string
	PolarityIndex      int
	WordNetDir         string
	// SentiWordNet is optional; without it the sense tier never resolves.
	SentiWordNet string
	// VaderExtra is an optional vader_lexicon.txt merged over the bundled one.
	VaderExtra string
}

// Resources are the loaded lexicons. They are read-only after loading and
// shared by every engine built from them.
type Resources struct {
	SenticNet    *senticnet.Lexicon
	WordNet      *wordnet.Dictionary
	SentiWordNet *sentiwordnet.Lexicon
	Vader        *vader.Lexicon
}

// Counts returns the number of entries per lexicon.
func (r *Resources) Counts() map[string]int {
	counts := map[string]int{
		LexiconSenticNet: r.SenticNet.Len(),
		LexiconVADER:     r.Vader.Len(),
	}

	if r.SentiWordNet != nil {
		counts[LexiconSentiWordNet] = r.SentiWordNet.Len()
	}

	return counts
}

// LoadResources reads every lexicon named in paths. Independent lexicons are
// loaded concurrently. Malformed SenticNet lines are logged and skipped.
func LoadResources(ctx context.Context, paths Paths, logger *slog.Logger) (*Resources, error) {
	if paths.SenticNet == "" {
		return nil, ErrMissingSenticNet
	}

	if paths.WordNetDir == "" {
		return nil, ErrMissingWordNet
	}

	if logger == nil {
		logger = slog.Default()
	}

	var res Resources

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		lex, err := loadSenticNet(paths, logger)
		res.SenticNet = lex

		return err
	})

	g.Go(func() error {
		dict, err := wordnet.Open(paths.WordNetDir)
		if err != nil {
			return fmt.Errorf("load wordnet: %w", err)
		}

		res.WordNet = dict

		if paths.SentiWordNet == "" {
			logger.Warn("sentiwordnet not configured, sense tier disabled")

			return nil
		}

		swn, err := sentiwordnet.Load(paths.SentiWordNet, dict)
		if err != nil {
			return fmt.Errorf("load sentiwordnet: %w", err)
		}

		res.SentiWordNet = swn

		return nil
	})

	g.Go(func() error {
		lex := vader.Default()

		if paths.VaderExtra != "" {
			n, err := lex.MergeFile(paths.VaderExtra)
			if err != nil {
				return fmt.Errorf("load vader lexicon: %w", err)
			}

			logger.Debug("merged vader entries", "count", n, "path", paths.VaderExtra)
		}

		res.Vader = lex

		return nil
	})

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	logger.Info("lexicons loaded", "senticnet", res.SenticNet.Len(), "vader", res.Vader.Len(),
		"sentiwordnet", res.Counts()[LexiconSentiWordNet])

	return &res, nil
}

func loadSenticNet(paths Paths, logger *slog.Logger) (*senticnet.Lexicon, error) {
	opts := []senticnet.Option{senticnet.WithLogger(logger)}

	if paths.SenticNetContainer != "" {
		opts = append(opts, senticnet.WithContainer(paths.SenticNetContainer))
	}

	if paths.PolarityIndex > 0 {
		opts = append(opts, senticnet.WithPolarityIndex(paths.PolarityIndex))
	}

	lex, skipped, err := senticnet.LoadFile(paths.SenticNet, opts...)
	if err != nil {
		return nil, fmt.Errorf("load senticnet: %w", err)
	}

	if len(skipped) > 0 {
		logger.Warn("senticnet lines skipped", "count", len(skipped))
	}

	return lex, nil
}
