// Package commands implements CLI command handlers for spreadsent.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spreadsent/pkg/batch"
	"github.com/Sumatoshi-tech/spreadsent/pkg/config"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
	"github.com/Sumatoshi-tech/spreadsent/pkg/persist"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiment"
	"github.com/Sumatoshi-tech/spreadsent/pkg/version"
)

const envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"

// ErrMissingFlag is returned when a required path flag is empty.
var ErrMissingFlag = errors.New("required flag not set")

// GlobalOptions are the persistent root flags.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	LogJSON    bool
}

// Register binds the options to cmd's persistent flags.
func (g *GlobalOptions) Register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.ConfigPath, "config", "", "config file (default: spreadsent.yaml in ., ./config, /etc/spreadsent)")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&g.LogJSON, "log-json", false, "emit logs as JSON")
}

// app is the per-invocation state shared by commands.
type app struct {
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.PipelineMetrics
	logger    *slog.Logger
	out       io.Writer
	quiet     bool
}

func setup(g *GlobalOptions, mode observability.AppMode, out io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.ObservabilityConfig(mode, version.Version)

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
	}

	switch {
	case g.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case g.Quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	if g.LogJSON || mode == observability.ModeMCP {
		obsCfg.LogJSON = true
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &app{
		cfg:       cfg,
		providers: providers,
		metrics:   metrics,
		logger:    providers.Logger,
		out:       out,
		quiet:     g.Quiet,
	}, nil
}

func (a *app) close() {
	err := a.providers.Shutdown(context.Background())
	if err != nil {
		a.logger.Warn("observability shutdown failed", observability.KeyError, err)
	}
}

func (a *app) engine(ctx context.Context) (*sentiment.Engine, error) {
	res, err := sentiment.LoadResources(ctx, a.cfg.Paths(), a.logger)
	if err != nil {
		return nil, err
	}

	a.metrics.RecordLexicons(ctx, res.Counts())

	return sentiment.NewEngine(res, a.cfg.EngineOptions()), nil
}

func (a *app) runner(engine batch.Engine) *batch.Runner {
	return batch.NewRunner(engine,
		batch.WithWorkers(a.cfg.Batch.Workers),
		batch.WithDropEmpty(a.cfg.Batch.DropEmpty),
		batch.WithLogger(a.logger),
		batch.WithTracer(a.providers.Tracer),
		batch.WithMetrics(a.metrics),
	)
}

// codec picks the codec from path's extension, falling back to the
// configured output codec.
func (a *app) codec(path string) (persist.Codec, error) {
	codec, err := persist.CodecForPath(path)
	if err == nil {
		return codec, nil
	}

	return persist.CodecByName(a.cfg.Output.Codec)
}

func (a *app) save(path string, v any) error {
	codec, err := a.codec(path)
	if err != nil {
		return err
	}

	err = batch.SaveSnapshot(path, codec, v)
	if err != nil {
		return err
	}

	a.wrote(path)

	return nil
}

func (a *app) load(path string, v any) error {
	codec, err := a.codec(path)
	if err != nil {
		return err
	}

	return batch.LoadSnapshot(path, codec, v)
}

func (a *app) wrote(path string) {
	if a.quiet {
		return
	}

	size := "?"
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}

	fmt.Fprintf(a.out, "%s %s (%s)\n", color.GreenString("wrote"), path, size)
}

func (a *app) summarize(stage string, report batch.Report) {
	for _, uerr := range report.Errors {
		a.logger.Debug("skipped unit detail", observability.KeyEntity, uerr.Entity,
			observability.KeyUnit, uerr.Unit, observability.KeyError, uerr.Err)
	}

	if a.quiet {
		return
	}

	skipped := humanize.Comma(int64(report.Skipped))
	if report.Skipped > 0 {
		skipped = color.YellowString(skipped)
	}

	fmt.Fprintf(a.out, "%s: %s entities, %s units scored, %s empty, %s skipped\n",
		stage,
		humanize.Comma(int64(report.Entities)),
		humanize.Comma(int64(report.Scored)),
		humanize.Comma(int64(report.Empty)),
		skipped)
}

func (a *app) logCache(engine *sentiment.Engine) {
	stats, ok := engine.CacheStats()
	if !ok {
		return
	}

	a.logger.Debug("token cache", "hits", stats.Hits, "misses", stats.Misses,
		"entries", stats.Entries, "hit_rate", stats.HitRate())
}

// requireFlags takes alternating flag names and values.
func requireFlags(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: --%s", ErrMissingFlag, pairs[i])
		}
	}

	return nil
}

func ensureDir(dir string) error {
	err := os.MkdirAll(filepath.Clean(dir), 0o750)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return nil
}
