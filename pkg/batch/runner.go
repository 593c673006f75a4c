package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/spreadsent/pkg/aggregate"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
)

// ErrUnitPanic marks a unit whose processing panicked.
var ErrUnitPanic = errors.New("unit processing panicked")

// Engine turns text into n-grams and n-grams into a score.
type Engine interface {
	NGrams(text string) ([]string, error)
	ScoreNGrams(flat []string) float64
}

// UnitError records a unit that was skipped.
type UnitError struct {
	Entity string
	// Unit is the 1-based position of the unit in the entity's input.
	Unit int
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("entity %q unit %d: %v", e.Entity, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// Report summarizes one pass over a dataset.
type Report struct {
	Entities int          `json:"entities"`
	Scored   int          `json:"scored"`
	Skipped  int          `json:"skipped"`
	Empty    int          `json:"empty"`
	Errors   []*UnitError `json:"-"`
}

func (r *Report) merge(other *Report) {
	r.Entities += other.Entities
	r.Scored += other.Scored
	r.Skipped += other.Skipped
	r.Empty += other.Empty
	r.Errors = append(r.Errors, other.Errors...)
}

// Result bundles every output of a full run.
type Result struct {
	Corpus     Corpus
	Scores     Scores
	Aggregates Aggregates
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of entities processed at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithDropEmpty drops units without n-grams and entities without units.
func WithDropEmpty(drop bool) Option {
	return func(r *Runner) { r.dropEmpty = drop }
}

// WithLogger sets the logger receiving skip warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = observability.OrDiscard(logger) }
}

// WithTracer sets the tracer used for per-entity spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithMetrics sets the metric recorder.
func WithMetrics(metrics *observability.PipelineMetrics) Option {
	return func(r *Runner) { r.metrics = metrics }
}

// Runner drives an Engine over datasets. It holds no per-run state.
type Runner struct {
	engine    Engine
	workers   int
	dropEmpty bool
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.PipelineMetrics
}

// NewRunner creates a runner over engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		workers: runtime.GOMAXPROCS(0),
		logger:  observability.Discard(),
		tracer:  nooptrace.NewTracerProvider().Tracer("batch"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// entityResult is the private output slot of one entity.
type entityResult struct {
	ngrams [][]string
	scores map[string]float64
	report Report
}

// Preprocess turns every text into its flat n-grams.
func (r *Runner) Preprocess(ctx context.Context, timelines Timelines) (Corpus, Report, error) {
	results, report, err := fanOut(ctx, r, "batch.preprocess", timelines, func(ctx context.Context, entity string, texts []string) entityResult {
		return r.preprocessEntity(ctx, entity, texts, false)
	})

	corpus := make(Corpus, len(results))

	for entity, res := range results {
		if r.dropEmpty && len(res.ngrams) == 0 {
			continue
		}

		corpus[entity] = res.ngrams
	}

	return corpus, report, err
}

// Score scores every unit of a preprocessed corpus.
func (r *Runner) Score(ctx context.Context, corpus Corpus) (Scores, Report, error) {
	results, report, err := fanOut(ctx, r, "batch.score", corpus, r.scoreEntity)

	scores := make(Scores, len(results))
	for entity, res := range results {
		scores[entity] = res.scores
	}

	return scores, report, err
}

// Run preprocesses, scores and aggregates timelines in one pass.
func (r *Runner) Run(ctx context.Context, timelines Timelines) (Result, Report, error) {
	results, report, err := fanOut(ctx, r, "batch.run", timelines, func(ctx context.Context, entity string, texts []string) entityResult {
		return r.preprocessEntity(ctx, entity, texts, true)
	})

	out := Result{
		Corpus: make(Corpus, len(results)),
		Scores: make(Scores, len(results)),
	}

	for entity, res := range results {
		if r.dropEmpty && len(res.ngrams) == 0 {
			continue
		}

		out.Corpus[entity] = res.ngrams
		out.Scores[entity] = res.scores
	}

	out.Aggregates = Aggregate(out.Scores)

	return out, report, err
}

// Aggregate computes the intensity of every entity.
func Aggregate(scores Scores) Aggregates {
	return aggregate.All(scores)
}

// fanOut runs fn once per entity, bounded by the worker limit. Entities are
// scheduled in name order; a canceled context stops scheduling and the
// results gathered so far are returned with the context error.
func fanOut[T any](
	ctx context.Context, r *Runner, op string, input map[string]T,
	fn func(ctx context.Context, entity string, units T) entityResult,
) (map[string]entityResult, Report, error) {
	ctx, span := r.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("entities", len(input))))
	defer span.End()

	entities := make([]string, 0, len(input))
	for entity := range input {
		entities = append(entities, entity)
	}

	slices.Sort(entities)

	slots := make([]*entityResult, len(entities))

	var g errgroup.Group

	g.SetLimit(r.workers)

	for i, entity := range entities {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			entityCtx, entitySpan := r.tracer.Start(ctx, "batch.entity")
			defer entitySpan.End()

			start := time.Now()
			res := fn(entityCtx, entity, input[entity])
			r.metrics.RecordEntity(entityCtx, time.Since(start))
			entitySpan.SetAttributes(attribute.Int("units.skipped", res.report.Skipped))
			slots[i] = &res

			return nil
		})
	}

	_ = g.Wait()

	results := make(map[string]entityResult, len(entities))

	var report Report

	for i, res := range slots {
		if res == nil {
			continue
		}

		results[entities[i]] = *res
		report.merge(&res.report)
	}

	span.SetAttributes(
		attribute.Int("units.scored", report.Scored),
		attribute.Int("units.skipped", report.Skipped),
		attribute.Int("units.empty", report.Empty),
	)

	err := ctx.Err()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return results, report, fmt.Errorf("batch %s interrupted: %w", op, err)
	}

	return results, report, nil
}

func (r *Runner) preprocessEntity(ctx context.Context, entity string, texts []string, score bool) entityResult {
	res := entityResult{
		ngrams: make([][]string, 0, len(texts)),
		report: Report{Entities: 1},
	}

	if score {
		res.scores = make(map[string]float64, len(texts))
	}

	for i, text := range texts {
		unit := i + 1

		var (
			flat []string
			err  error
		)

		if strings.TrimSpace(text) != "" {
			flat, err = r.ngrams(text)
		}

		if err != nil {
			r.skip(ctx, &res.report, entity, unit, err)

			continue
		}

		if len(flat) == 0 {
			if r.dropEmpty {
				res.report.Empty++
				r.metrics.RecordUnit(ctx, observability.UnitEmpty)

				continue
			}

			flat = []string{}
		}

		res.ngrams = append(res.ngrams, flat)

		if !score {
			r.count(ctx, &res.report, flat)

			continue
		}

		value, scoreErr := r.score(flat)
		if scoreErr != nil {
			r.skip(ctx, &res.report, entity, unit, scoreErr)

			continue
		}

		res.scores[strconv.Itoa(len(res.ngrams))] = value
		r.count(ctx, &res.report, flat)
	}

	return res
}

func (r *Runner) scoreEntity(ctx context.Context, entity string, units [][]string) entityResult {
	res := entityResult{
		scores: make(map[string]float64, len(units)),
		report: Report{Entities: 1},
	}

	for i, flat := range units {
		value, err := r.score(flat)
		if err != nil {
			r.skip(ctx, &res.report, entity, i+1, err)

			continue
		}

		res.scores[strconv.Itoa(i+1)] = value
		r.count(ctx, &res.report, flat)
	}

	return res
}

func (r *Runner) count(ctx context.Context, report *Report, flat []string) {
	if len(flat) == 0 {
		report.Empty++
		r.metrics.RecordUnit(ctx, observability.UnitEmpty)

		return
	}

	report.Scored++
	r.metrics.RecordUnit(ctx, observability.UnitScored)
}

func (r *Runner) skip(ctx context.Context, report *Report, entity string, unit int, err error) {
	uerr := &UnitError{Entity: entity, Unit: unit, Err: err}

	report.Skipped++
	report.Errors = append(report.Errors, uerr)
	r.metrics.RecordUnit(ctx, observability.UnitSkipped)

	r.logger.WarnContext(ctx, "unit skipped",
		observability.KeyEntity, entity,
		observability.KeyUnit, unit,
		observability.KeyError, err)
}

func (r *Runner) ngrams(text string) (flat []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrUnitPanic, rec)
		}
	}()

	return r.engine.NGrams(text)
}

func (r *Runner) score(flat []string) (value float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrUnitPanic, rec)
		}
	}()

	return r.engine.ScoreNGrams(flat), nil
}
