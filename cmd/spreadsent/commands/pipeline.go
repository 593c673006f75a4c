package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spreadsent/pkg/batch"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
	"github.com/Sumatoshi-tech/spreadsent/pkg/persist"
)

// NewPreprocessCommand creates the preprocess command.
func NewPreprocessCommand(g *GlobalOptions) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Normalize timelines into per-unit n-gram lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := requireFlags("in", in, "out", out)
			if err != nil {
				return err
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			timelines, err := batch.LoadTimelines(in)
			if err != nil {
				return err
			}

			engine, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			corpus, report, err := a.runner(engine).Preprocess(cmd.Context(), timelines)
			a.summarize("preprocess", report)
			a.logCache(engine)

			if err != nil {
				return err
			}

			return a.save(out, corpus)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "timelines file (.json or .csv)")
	cmd.Flags().StringVar(&out, "out", "", "n-gram corpus snapshot (.json, .gob, .json.lz4)")

	return cmd
}

// NewScoreCommand creates the score command.
func NewScoreCommand(g *GlobalOptions) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every unit of an n-gram corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := requireFlags("in", in, "out", out)
			if err != nil {
				return err
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			var corpus batch.Corpus

			err = a.load(in, &corpus)
			if err != nil {
				return err
			}

			engine, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			scores, report, err := a.runner(engine).Score(cmd.Context(), corpus)
			a.summarize("score", report)

			if err != nil {
				return err
			}

			return a.save(out, scores)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "n-gram corpus snapshot")
	cmd.Flags().StringVar(&out, "out", "", "scores snapshot")

	return cmd
}

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand(g *GlobalOptions) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Reduce unit scores to one sentiment intensity per entity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := requireFlags("in", in, "out", out)
			if err != nil {
				return err
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			var scores batch.Scores

			err = a.load(in, &scores)
			if err != nil {
				return err
			}

			return a.save(out, batch.Aggregate(scores))
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "scores snapshot")
	cmd.Flags().StringVar(&out, "out", "", "aggregates snapshot")

	return cmd
}

// NewRunCommand creates the run command.
func NewRunCommand(g *GlobalOptions) *cobra.Command {
	var in, outDir, codecName string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Preprocess, score and aggregate timelines in one pass",
		Long: `Run the whole pipeline over a timelines file and write three snapshots
into the output directory: ngrams, scores and aggregates. The snapshot
extension follows the codec (json, gob or lz4).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := requireFlags("in", in, "out-dir", outDir)
			if err != nil {
				return err
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if codecName == "" {
				codecName = a.cfg.Output.Codec
			}

			codec, err := persist.CodecByName(codecName)
			if err != nil {
				return err
			}

			timelines, err := batch.LoadTimelines(in)
			if err != nil {
				return err
			}

			engine, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			res, report, err := a.runner(engine).Run(cmd.Context(), timelines)
			a.summarize("run", report)
			a.logCache(engine)

			if err != nil {
				return err
			}

			err = ensureDir(outDir)
			if err != nil {
				return err
			}

			outputs := batch.NewOutputs(codec)

			err = outputs.Save(outDir, res)
			if err != nil {
				return err
			}

			for _, path := range []string{outputs.NGrams.Path(outDir), outputs.Scores.Path(outDir), outputs.Aggregates.Path(outDir)} {
				a.wrote(filepath.Clean(path))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "timelines file (.json or .csv)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory receiving the snapshots")
	cmd.Flags().StringVar(&codecName, "codec", "", "snapshot codec: json, gob or lz4 (default from config)")

	return cmd
}
