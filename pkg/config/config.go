// Package config loads spreadsent settings from defaults, an optional YAML
// file and SPREADSENT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/spreadsent/pkg/ngram"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
	"github.com/Sumatoshi-tech/spreadsent/pkg/persist"
	"github.com/Sumatoshi-tech/spreadsent/pkg/polarity"
	"github.com/Sumatoshi-tech/spreadsent/pkg/senticnet"
	"github.com/Sumatoshi-tech/spreadsent/pkg/sentiment"
	"github.com/Sumatoshi-tech/spreadsent/pkg/textnorm"
)

// Sentinel validation errors.
var (
	ErrInvalidPolarityIndex = errors.New("polarity index must not be negative")
	ErrInvalidMaxRun        = errors.New("normalizer max run must be positive")
	ErrInvalidCacheSize     = errors.New("normalizer cache size must not be negative")
	ErrInvalidMaxN          = errors.New("scoring max n out of range")
	ErrInvalidPrecision     = errors.New("scoring precision must not be negative")
	ErrInvalidDivisor       = errors.New("valence divisor must be positive")
	ErrInvalidWorkers       = errors.New("batch workers must not be negative")
	ErrInvalidCodec         = errors.New("unknown output codec")
	ErrInvalidFormat        = errors.New("unknown report format")
	ErrInvalidLogLevel      = errors.New("unknown log level")
	ErrInvalidSampleRatio   = errors.New("sample ratio must be within [0, 1]")
)

// Report formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const (
	envPrefix        = "SPREADSENT"
	configName       = "spreadsent"
	defaultTop       = 20
	defaultMaxRun    = textnorm.DefaultMaxRun
	defaultCacheSize = 10000
	defaultLevel     = "info"
	defaultPolIdx    = senticnet.DefaultPolarityIndex
	defaultVarName   = senticnet.DefaultContainer
)

var (
	knownFormats = []string{FormatTable, FormatJSON, FormatYAML}
	knownLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all spreadsent configuration.
type Config struct {
	Lexicons      LexiconsConfig      `mapstructure:"lexicons"`
	Normalizer    NormalizerConfig    `mapstructure:"normalizer"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Batch         BatchConfig         `mapstructure:"batch"`
	Output        OutputConfig        `mapstructure:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// LexiconsConfig locates the lexicon resources.
type LexiconsConfig struct {
	SenticNet          string `mapstructure:"senticnet"`
	SenticNetContainer string `mapstructure:"senticnet_container"`
	PolarityIndex      int    `mapstructure:"polarity_index"`
	WordNetDir         string `mapstructure:"wordnet_dir"`
	SentiWordNet       string `mapstructure:"sentiwordnet"`
	VaderExtra         string `mapstructure:"vader_extra"`
}

// NormalizerConfig tunes text normalization.
type NormalizerConfig struct {
	MaxRun       int      `mapstructure:"max_run"`
	NegationCues []string `mapstructure:"negation_cues"`
	CacheSize    int      `mapstructure:"cache_size"`
}

// ScoringConfig tunes polarity resolution.
type ScoringConfig struct {
	MaxN           int     `mapstructure:"max_n"`
	Precision      int     `mapstructure:"precision"`
	ValenceDivisor float64 `mapstructure:"valence_divisor"`
}

// BatchConfig tunes the batch runner.
type BatchConfig struct {
	// Workers bounds concurrent entities; zero means GOMAXPROCS.
	Workers   int  `mapstructure:"workers"`
	DropEmpty bool `mapstructure:"drop_empty"`
}

// OutputConfig controls snapshot and report output.
type OutputConfig struct {
	Codec  string `mapstructure:"codec"`
	Format string `mapstructure:"format"`
	Top    int    `mapstructure:"top"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig holds telemetry export settings.
type ObservabilityConfig struct {
	Environment     string  `mapstructure:"environment"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string  `mapstructure:"otlp_headers"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
	DebugTrace      bool    `mapstructure:"debug_trace"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
	MetricsTextfile string  `mapstructure:"metrics_textfile"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/spreadsent")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("lexicons.senticnet", "")
	viperCfg.SetDefault("lexicons.senticnet_container", defaultVarName)
	viperCfg.SetDefault("lexicons.polarity_index", defaultPolIdx)
	viperCfg.SetDefault("lexicons.wordnet_dir", "")
	viperCfg.SetDefault("lexicons.sentiwordnet", "")
	viperCfg.SetDefault("lexicons.vader_extra", "")

	viperCfg.SetDefault("normalizer.max_run", defaultMaxRun)
	viperCfg.SetDefault("normalizer.negation_cues", textnorm.DefaultNegationCues)
	viperCfg.SetDefault("normalizer.cache_size", defaultCacheSize)

	viperCfg.SetDefault("scoring.max_n", ngram.DefaultMaxN)
	viperCfg.SetDefault("scoring.precision", polarity.DefaultPrecision)
	viperCfg.SetDefault("scoring.valence_divisor", polarity.DefaultValenceDivisor)

	viperCfg.SetDefault("batch.workers", 0)
	viperCfg.SetDefault("batch.drop_empty", false)

	viperCfg.SetDefault("output.codec", persist.CodecJSON)
	viperCfg.SetDefault("output.format", FormatTable)
	viperCfg.SetDefault("output.top", defaultTop)

	viperCfg.SetDefault("logging.level", defaultLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.debug_trace", false)
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.metrics_textfile", "")
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Lexicons.PolarityIndex < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPolarityIndex, c.Lexicons.PolarityIndex)
	}

	if c.Normalizer.MaxRun <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRun, c.Normalizer.MaxRun)
	}

	if c.Normalizer.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.Normalizer.CacheSize)
	}

	if c.Scoring.MaxN < 1 || c.Scoring.MaxN > ngram.DefaultMaxN {
		return fmt.Errorf("%w: %d", ErrInvalidMaxN, c.Scoring.MaxN)
	}

	if c.Scoring.Precision < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, c.Scoring.Precision)
	}

	if c.Scoring.ValenceDivisor <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidDivisor, c.Scoring.ValenceDivisor)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Batch.Workers)
	}

	_, codecErr := persist.CodecByName(c.Output.Codec)
	if codecErr != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, c.Output.Codec)
	}

	if !slices.Contains(knownFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if !slices.Contains(knownLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Observability.SampleRatio)
	}

	return nil
}

// Paths returns the lexicon locations.
func (c *Config) Paths() sentiment.Paths {
	return sentiment.Paths{
		SenticNet:          c.Lexicons.SenticNet,
		SenticNetContainer: c.Lexicons.SenticNetContainer,
		PolarityIndex:      c.Lexicons.PolarityIndex,
		WordNetDir:         c.Lexicons.WordNetDir,
		SentiWordNet:       c.Lexicons.SentiWordNet,
		VaderExtra:         c.Lexicons.VaderExtra,
	}
}

// EngineOptions returns the scoring engine settings.
func (c *Config) EngineOptions() sentiment.Options {
	return sentiment.Options{
		Normalizer: textnorm.Config{
			MaxRun:       c.Normalizer.MaxRun,
			NegationCues: c.Normalizer.NegationCues,
		},
		MaxN:           c.Scoring.MaxN,
		Precision:      c.Scoring.Precision,
		ValenceDivisor: c.Scoring.ValenceDivisor,
		CacheSize:      c.Normalizer.CacheSize,
	}
}

// ObservabilityConfig returns telemetry settings for the given mode.
func (c *Config) ObservabilityConfig(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Mode = mode
	cfg.Environment = c.Observability.Environment
	cfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	cfg.OTLPInsecure = c.Observability.OTLPInsecure
	cfg.DebugTrace = c.Observability.DebugTrace
	cfg.SampleRatio = c.Observability.SampleRatio
	cfg.MetricsTextfile = c.Observability.MetricsTextfile
	cfg.LogLevel = observability.ParseLogLevel(c.Logging.Level)
	cfg.LogJSON = c.Logging.JSON

	return cfg
}
