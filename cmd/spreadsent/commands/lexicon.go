package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spreadsent/pkg/config"
	"github.com/Sumatoshi-tech/spreadsent/pkg/ngram"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
	"github.com/Sumatoshi-tech/spreadsent/pkg/senticnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiment"
)

// NewLexiconCommand creates the lexicon command group.
func NewLexiconCommand(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Lexicon maintenance commands",
	}

	cmd.AddCommand(newLexiconConvertCommand(g))
	cmd.AddCommand(newLexiconLookupCommand(g))

	return cmd
}

func newLexiconConvertCommand(g *GlobalOptions) *cobra.Command {
	var (
		in, out, container string
		index              int
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a SenticNet assignment file to JSON",
		Long: `Parse a SenticNet source file made of lines such as

  senticnet['a_little'] = ['0.1', '0.2', ..., '0.07']

and write the concept table as a JSON object. Malformed lines are skipped
and reported.`,
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

			lex, skipped, err := senticnet.LoadFile(in,
				senticnet.WithContainer(container),
				senticnet.WithPolarityIndex(index),
				senticnet.WithLogger(a.logger))
			if err != nil {
				return err
			}

			err = writeLexicon(out, lex)
			if err != nil {
				return err
			}

			a.wrote(out)

			if !a.quiet {
				skippedText := humanize.Comma(int64(len(skipped)))
				if len(skipped) > 0 {
					skippedText = color.YellowString(skippedText)
				}

				fmt.Fprintf(a.out, "%s entries, %s lines skipped\n", humanize.Comma(int64(lex.Len())), skippedText)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "SenticNet source file (.py, .txt or .json)")
	cmd.Flags().StringVar(&out, "out", "", "output JSON file")
	cmd.Flags().StringVar(&container, "container", senticnet.DefaultContainer, "name of the assigned dictionary")
	cmd.Flags().IntVar(&index, "index", senticnet.DefaultPolarityIndex, "position of the polarity value in each entry")

	return cmd
}

func writeLexicon(path string, lex *senticnet.Lexicon) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create lexicon file: %w", err)
	}

	err = lex.WriteJSON(file)

	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("write lexicon %s: %w", path, err)
	}

	return nil
}

// ConceptRow is one looked-up SenticNet concept.
type ConceptRow struct {
	Term     string           `json:"term"`
	Found    bool             `json:"found"`
	Polarity *float64         `json:"polarity,omitempty"`
	Record   senticnet.Record `json:"record,omitempty"`
}

// LookupConcepts resolves terms against lex. Terms are matched in key form,
// so "out of this world" finds out_of_this_world. A non-empty prefix adds
// every concept starting with it.
func LookupConcepts(lex *senticnet.Lexicon, terms []string, prefix string) []ConceptRow {
	keys := make([]string, 0, len(terms))
	for _, term := range terms {
		keys = append(keys, ngram.Key(ngram.Words(strings.ToLower(term))))
	}

	if prefix != "" {
		prefix = ngram.Key(ngram.Words(strings.ToLower(prefix)))

		for _, term := range lex.Terms() {
			if strings.HasPrefix(term, prefix) {
				keys = append(keys, term)
			}
		}
	}

	rows := make([]ConceptRow, 0, len(keys))

	for _, key := range keys {
		row := ConceptRow{Term: key}

		if rec, ok := lex.Lookup(key); ok {
			row.Found = true
			row.Record = rec
		}

		if pol, ok := lex.Polarity(key); ok {
			row.Polarity = &pol
		}

		rows = append(rows, row)
	}

	return rows
}

func newLexiconLookupCommand(g *GlobalOptions) *cobra.Command {
	var in, prefix, format string

	cmd := &cobra.Command{
		Use:   "lookup [term...]",
		Short: "Show SenticNet entries and polarities for terms",
		Long: `Look up concepts in the SenticNet lexicon named by --in, or by
lexicons.senticnet in the configuration. Multi-word terms may be given with
spaces or underscores. --prefix lists every concept starting with a prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && prefix == "" {
				return fmt.Errorf("%w: give terms or --prefix", ErrMissingFlag)
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			paths := a.cfg.Paths()
			if in != "" {
				paths.SenticNet = in
			}

			err = requireFlags("in", paths.SenticNet)
			if err != nil {
				return err
			}

			lex, _, err := senticnet.LoadFile(paths.SenticNet,
				senticnet.WithContainer(paths.SenticNetContainer),
				senticnet.WithPolarityIndex(paths.PolarityIndex),
				senticnet.WithLogger(a.logger))
			if err != nil {
				return err
			}

			a.metrics.RecordLexicons(cmd.Context(), map[string]int{sentiment.LexiconSenticNet: lex.Len()})

			return renderConcepts(a.out, LookupConcepts(lex, args, prefix), format)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "SenticNet file (default: lexicons.senticnet)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "list concepts starting with this prefix")
	cmd.Flags().StringVar(&format, "format", config.FormatTable, "output format: table or json")

	return cmd
}

func renderConcepts(w io.Writer, rows []ConceptRow, format string) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(rows)
		if err != nil {
			return fmt.Errorf("encode concepts: %w", err)
		}

		return nil
	case config.FormatTable, "":
		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Term", "Polarity", "Record"})

		for _, row := range rows {
			polarity := color.YellowString("missing")
			if row.Polarity != nil {
				polarity = colorScore(*row.Polarity)
			}

			tw.AppendRow(table.Row{row.Term, polarity, formatRecord(row.Record)})
		}

		fmt.Fprintln(w, tw.Render())

		return nil
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

func formatRecord(rec senticnet.Record) string {
	parts := make([]string, 0, len(rec))
	for _, v := range rec {
		parts = append(parts, fmt.Sprint(v))
	}

	return strings.Join(parts, ", ")
}
