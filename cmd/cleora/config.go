package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/isgasho/cleora"
	"github.com/isgasho/cleora/output"
)

// Config is the CLI configuration. Fields loaded from the YAML file are
// overridden by explicitly set flags.
type Config struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Dimension     int    `yaml:"dimension"`
	MaxIterations int    `yaml:"max_iterations"`
	Strategy      string `yaml:"strategy"`
	WorkDir       string `yaml:"work_dir"`
	Compression   string `yaml:"compression"`
	Parallelism   int    `yaml:"parallelism"`
	MemoryLimit   int64  `yaml:"memory_limit"`
	LogFormat     string `yaml:"log_format"`
	LogLevel      string `yaml:"log_level"`
	MetricsAddr   string `yaml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when neither file nor flags set a field.
func DefaultConfig() Config {
	return Config{
		Output:        "embeddings.out",
		Dimension:     cleora.DefaultDimension,
		MaxIterations: cleora.DefaultMaxIterations,
		Strategy:      cleora.InMemory.String(),
		WorkDir:       ".",
		Compression:   string(output.CompressionNone),
		LogFormat:     "text",
		LogLevel:      "info",
	}
}

// LoadConfig reads the YAML configuration file using strict parsing.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// configFromContext loads the config file named by --config and applies
// the flags the user set explicitly.
func configFromContext(c *cli.Context) (Config, error) {
	cfg, err := LoadConfig(c.String(flagConfig))
	if err != nil {
		return cfg, err
	}

	if c.IsSet(flagInput) {
		cfg.Input = c.String(flagInput)
	}
	if c.IsSet(flagOutput) {
		cfg.Output = c.String(flagOutput)
	}
	if c.IsSet(flagDimension) {
		cfg.Dimension = c.Int(flagDimension)
	}
	if c.IsSet(flagMaxIter) {
		cfg.MaxIterations = c.Int(flagMaxIter)
	}
	if c.IsSet(flagStrategy) {
		cfg.Strategy = c.String(flagStrategy)
	}
	if c.IsSet(flagWorkDir) {
		cfg.WorkDir = c.String(flagWorkDir)
	}
	if c.IsSet(flagCompression) {
		cfg.Compression = c.String(flagCompression)
	}
	if c.IsSet(flagParallelism) {
		cfg.Parallelism = c.Int(flagParallelism)
	}
	if c.IsSet(flagMemoryLimit) {
		cfg.MemoryLimit = c.Int64(flagMemoryLimit)
	}
	if c.IsSet(flagLogFormat) {
		cfg.LogFormat = c.String(flagLogFormat)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagMetricsAddr) {
		cfg.MetricsAddr = c.String(flagMetricsAddr)
	}

	if cfg.Input == "" {
		return cfg, fmt.Errorf("missing --%s", flagInput)
	}
	return cfg, nil
}

// embedOptions translates cfg into Embed options.
func (cfg Config) embedOptions(logger *cleora.Logger) ([]cleora.Option, error) {
	strategy, err := cleora.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return []cleora.Option{
		cleora.WithDimension(cfg.Dimension),
		cleora.WithMaxIterations(cfg.MaxIterations),
		cleora.WithStrategy(strategy),
		cleora.WithWorkDir(cfg.WorkDir),
		cleora.WithParallelism(cfg.Parallelism),
		cleora.WithMemoryLimit(cfg.MemoryLimit),
		cleora.WithLogger(logger),
	}, nil
}

func newLogger(w io.Writer, format, level string) (*cleora.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	switch strings.ToLower(format) {
	case "", "text":
		return cleora.NewTextLogger(w, lvl), nil
	case "json":
		return cleora.NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
