package commands

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/spreadsent/pkg/alg/stats"
	"github.com/Sumatoshi-tech/spreadsent/pkg/batch"
	"github.com/Sumatoshi-tech/spreadsent/pkg/config"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
)

const (
	reportPrecision = 4
	labelAll        = "all"
	labelNone       = "unlabeled"
)

// EntityRow is one entity line of a report.
type EntityRow struct {
	Entity    string  `json:"entity"          yaml:"entity"`
	Label     string  `json:"label,omitempty" yaml:"label,omitempty"`
	Units     int     `json:"units"           yaml:"units"`
	Mean      float64 `json:"mean"            yaml:"mean"`
	Intensity float64 `json:"intensity"       yaml:"intensity"`
}

// LabelSummary describes the intensities of one entity group.
type LabelSummary struct {
	Label         string `json:"label" yaml:"label"`
	stats.Summary `yaml:",inline"`
}

// Report is the rendered model of the report command.
type Report struct {
	Entities []EntityRow    `json:"entities" yaml:"entities"`
	Labels   []LabelSummary `json:"labels"   yaml:"labels"`
}

// BuildReport assembles the report. A nil aggregates map is recomputed from
// scores; labels may be nil. Top bounds the entity rows, zero keeps all.
func BuildReport(scores batch.Scores, aggregates batch.Aggregates, labels map[string]string, top int) Report {
	if aggregates == nil {
		aggregates = batch.Aggregate(scores)
	}

	entities := slices.Sorted(maps.Keys(aggregates))
	for entity := range scores {
		if _, ok := aggregates[entity]; !ok {
			entities = append(entities, entity)
		}
	}

	rows := make([]EntityRow, 0, len(entities))
	groups := make(map[string][]float64)

	for _, entity := range entities {
		values := slices.Collect(maps.Values(scores[entity]))
		intensity := aggregates[entity]

		row := EntityRow{
			Entity:    entity,
			Units:     len(values),
			Mean:      stats.Round(stats.Mean(values), reportPrecision),
			Intensity: intensity,
		}

		group := labelAll
		if labels != nil {
			row.Label = cmp.Or(labels[entity], labelNone)
			group = row.Label
		}

		rows = append(rows, row)
		groups[group] = append(groups[group], intensity)
	}

	slices.SortFunc(rows, func(a, b EntityRow) int {
		return cmp.Or(cmp.Compare(b.Intensity, a.Intensity), strings.Compare(a.Entity, b.Entity))
	})

	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	summaries := make([]LabelSummary, 0, len(groups))
	for _, label := range slices.Sorted(maps.Keys(groups)) {
		summaries = append(summaries, LabelSummary{Label: label, Summary: roundSummary(stats.Summarize(groups[label]))})
	}

	return Report{Entities: rows, Labels: summaries}
}

func roundSummary(s stats.Summary) stats.Summary {
	s.Mean = stats.Round(s.Mean, reportPrecision)
	s.StdDev = stats.Round(s.StdDev, reportPrecision)
	s.Median = stats.Round(s.Median, reportPrecision)
	s.P95 = stats.Round(s.P95, reportPrecision)
	s.Min = stats.Round(s.Min, reportPrecision)
	s.Max = stats.Round(s.Max, reportPrecision)

	return s
}

// RenderReport writes the report in the given format.
func RenderReport(w io.Writer, report Report, format string) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return nil
	case config.FormatTable, "":
		renderTables(w, report)

		return nil
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

func renderTables(w io.Writer, report Report) {
	entities := table.NewWriter()
	entities.SetStyle(table.StyleLight)
	entities.AppendHeader(table.Row{"Entity", "Label", "Units", "Mean", "Intensity"})

	for _, row := range report.Entities {
		entities.AppendRow(table.Row{row.Entity, row.Label, row.Units, colorScore(row.Mean), formatScore(row.Intensity)})
	}

	entities.AppendFooter(table.Row{fmt.Sprintf("Total: %d entities", len(report.Entities))})

	labels := table.NewWriter()
	labels.SetStyle(table.StyleLight)
	labels.AppendHeader(table.Row{"Label", "Count", "Mean", "Median", "P95", "StdDev", "Min", "Max"})

	for _, s := range report.Labels {
		labels.AppendRow(table.Row{
			s.Label, s.Count, formatScore(s.Mean), formatScore(s.Median), formatScore(s.P95),
			formatScore(s.StdDev), formatScore(s.Min), formatScore(s.Max),
		})
	}

	fmt.Fprintf(w, "%s\n\n%s\n", entities.Render(), labels.Render())
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', reportPrecision, 64)
}

func colorScore(v float64) string {
	switch {
	case v > 0:
		return color.GreenString(formatScore(v))
	case v < 0:
		return color.RedString(formatScore(v))
	default:
		return formatScore(v)
	}
}

// NewReportCommand creates the report command.
func NewReportCommand(g *GlobalOptions) *cobra.Command {
	var (
		scoresPath, aggregatesPath, labelsPath, format string
		top                                            int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize scores per entity and per label",
		Long: `Print a per-entity table (units, mean score, intensity) sorted by
intensity, and descriptive statistics of the intensities per label.
Labels are read from a JSON object mapping entity to label, for example
{"alice": "fake", "bob": "real"}.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := requireFlags("scores", scoresPath)
			if err != nil {
				return err
			}

			a, err := setup(g, observability.ModeCLI, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			var scores batch.Scores

			err = a.load(scoresPath, &scores)
			if err != nil {
				return err
			}

			var aggregates batch.Aggregates

			if aggregatesPath != "" {
				err = a.load(aggregatesPath, &aggregates)
				if err != nil {
					return err
				}
			}

			var labels map[string]string

			if labelsPath != "" {
				err = a.load(labelsPath, &labels)
				if err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}

			if !cmd.Flags().Changed("top") {
				top = a.cfg.Output.Top
			}

			return RenderReport(a.out, BuildReport(scores, aggregates, labels, top), format)
		},
	}

	cmd.Flags().StringVar(&scoresPath, "scores", "", "scores snapshot")
	cmd.Flags().StringVar(&aggregatesPath, "aggregates", "", "aggregates snapshot (recomputed from scores when omitted)")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "JSON object mapping entity to label")
	cmd.Flags().StringVar(&format, "format", config.FormatTable, "output format: table, json or yaml")
	cmd.Flags().IntVar(&top, "top", 0, "show only the N most intense entities (0 for all)")

	return cmd
}
