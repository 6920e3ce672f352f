// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/irbench/ir-bench/internal/similarity"
	"github.com/irbench/ir-bench/internal/sweep"
	"github.com/irbench/ir-bench/internal/weighting"
)

// Config holds all application configuration.
type Config struct {
	// Input configuration
	Input InputConfig `yaml:"input"`

	// Sweep configuration
	Sweep SweepConfig `yaml:"sweep"`

	// Output configuration
	Output OutputConfig `yaml:"output"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// InputConfig holds the corpus input paths.
type InputConfig struct {
	Docs      string `envconfig:"IRBENCH_DOCS" yaml:"docs"`
	Queries   string `envconfig:"IRBENCH_QUERIES" yaml:"queries"`
	Judgments string `envconfig:"IRBENCH_JUDGMENTS" yaml:"judgments"`
	Stopwords string `envconfig:"IRBENCH_STOPWORDS" yaml:"stopwords"`
}

// SweepConfig spans the configuration space of the sweep.
type SweepConfig struct {
	Schemes         []string     `envconfig:"IRBENCH_SCHEMES" yaml:"schemes"`
	Similarities    []string     `envconfig:"IRBENCH_SIMILARITIES" yaml:"similarities"`
	StopwordChoices []bool       `envconfig:"IRBENCH_STOPWORD_CHOICES" yaml:"stopword_choices"`
	StemChoices     []bool       `envconfig:"IRBENCH_STEM_CHOICES" yaml:"stem_choices"`
	Profiles        [][4]float64 `ignored:"true" yaml:"profiles"`
	Workers         int          `envconfig:"IRBENCH_WORKERS" yaml:"workers"`
}

// OutputConfig holds result sink settings.
type OutputConfig struct {
	// TSV is the output table path; empty means stdout.
	TSV string `envconfig:"IRBENCH_OUTPUT" yaml:"tsv"`
	// SQLite is an optional supplementary sink; empty disables it.
	SQLite string `envconfig:"IRBENCH_SQLITE" yaml:"sqlite"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"IRBENCH_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"IRBENCH_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg, err := LoadPartial(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadPartial loads defaults, file and environment without validating,
// for callers that merge CLI flag overrides before calling Validate.
func LoadPartial(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Sweep = SweepConfig{
		Schemes:         []string{"boolean", "tf", "tfidf"},
		Similarities:    []string{"cosine", "jaccard", "dice", "overlap"},
		StopwordChoices: []bool{false, true},
		StemChoices:     []bool{false, true},
		Profiles: [][4]float64{
			{1, 1, 0, 0},
			{1, 1, 1, 0},
			{1, 1, 0, 1},
		},
		Workers: 4,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate checks configuration consistency. Unknown scheme or similarity
// tags and negative profile coefficients are caught here, before the
// sweep starts.
func (c *Config) Validate() error {
	if c.Input.Docs == "" {
		return fmt.Errorf("input.docs is required")
	}
	if c.Input.Queries == "" {
		return fmt.Errorf("input.queries is required")
	}
	if c.Input.Judgments == "" {
		return fmt.Errorf("input.judgments is required")
	}
	if c.Input.Stopwords == "" && hasTrue(c.Sweep.StopwordChoices) {
		return fmt.Errorf("input.stopwords is required when stopword removal is swept")
	}

	if c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep.workers must be >= 0")
	}
	if len(c.Sweep.Schemes) == 0 || len(c.Sweep.Similarities) == 0 ||
		len(c.Sweep.StopwordChoices) == 0 || len(c.Sweep.StemChoices) == 0 ||
		len(c.Sweep.Profiles) == 0 {
		return fmt.Errorf("every sweep dimension needs at least one value")
	}

	return nil
}

// Dimensions resolves the configured tags into sweep dimensions. Unknown
// scheme/similarity tags and negative profile coefficients are NOT
// rejected here: they map to values the sweep fails per configuration,
// so one typo produces one clearly-marked failed row instead of aborting
// the run.
func (c *Config) Dimensions() sweep.Dimensions {
	var dims sweep.Dimensions

	for _, tag := range c.Sweep.Schemes {
		scheme, err := weighting.ParseScheme(tag)
		if err != nil {
			scheme = weighting.Scheme(-1)
		}
		dims.Schemes = append(dims.Schemes, scheme)
	}
	for _, tag := range c.Sweep.Similarities {
		kind, err := similarity.ParseKind(tag)
		if err != nil {
			kind = similarity.Kind(-1)
		}
		dims.Kinds = append(dims.Kinds, kind)
	}

	dims.StopwordChoices = c.Sweep.StopwordChoices
	dims.StemChoices = c.Sweep.StemChoices

	for _, p := range c.Sweep.Profiles {
		dims.Profiles = append(dims.Profiles, weighting.Profile(p))
	}

	return dims
}

func hasTrue(choices []bool) bool {
	for _, c := range choices {
		if c {
			return true
		}
	}
	return false
}
