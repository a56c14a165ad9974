// Command cleora computes entity embeddings for a tab-separated edge list.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig      = "config"
	flagInput       = "input"
	flagOutput      = "output"
	flagDimension   = "dimension"
	flagMaxIter     = "max-iter"
	flagStrategy    = "strategy"
	flagWorkDir     = "work-dir"
	flagCompression = "compression"
	flagParallelism = "parallelism"
	flagMemoryLimit = "memory-limit"
	flagLogFormat   = "log-format"
	flagLogLevel    = "log-level"
	flagMetricsAddr = "metrics-addr"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cleora:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	def := DefaultConfig()
	return &cli.App{
		Name:  "cleora",
		Usage: "compute graph entity embeddings from a tab-separated edge list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML config file; explicit flags take precedence",
				EnvVars: []string{"CLEORA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    flagInput,
				Aliases: []string{"i"},
				Usage:   "edge list: two tab-separated entity names and an optional weight per line",
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Value:   def.Output,
				Usage:   "embedding output file, - for stdout",
			},
			&cli.IntFlag{
				Name:    flagDimension,
				Aliases: []string{"d"},
				Value:   def.Dimension,
				Usage:   "embedding dimension",
			},
			&cli.IntFlag{
				Name:    flagMaxIter,
				Aliases: []string{"n"},
				Value:   def.MaxIterations,
				Usage:   "number of propagation rounds",
			},
			&cli.StringFlag{
				Name:  flagStrategy,
				Value: def.Strategy,
				Usage: "matrix storage: memory or mmap",
			},
			&cli.StringFlag{
				Name:  flagWorkDir,
				Value: def.WorkDir,
				Usage: "directory for mmap generation files",
			},
			&cli.StringFlag{
				Name:  flagCompression,
				Value: def.Compression,
				Usage: "output compression: none, zstd or lz4",
			},
			&cli.IntFlag{
				Name:  flagParallelism,
				Usage: "maximum concurrent tasks per phase (0 = GOMAXPROCS)",
			},
			&cli.Int64Flag{
				Name:  flagMemoryLimit,
				Usage: "maximum heap bytes for in-memory generations (0 = unlimited)",
			},
			&cli.StringFlag{
				Name:  flagLogFormat,
				Value: def.LogFormat,
				Usage: "log format: text or json",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: def.LogLevel,
				Usage: "log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  flagMetricsAddr,
				Usage: "serve Prometheus metrics on this address while running",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromContext(c)
			if err != nil {
				return err
			}
			return run(c.Context, cfg, c.App.ErrWriter)
		},
	}
}
