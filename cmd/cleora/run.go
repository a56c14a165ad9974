package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isgasho/cleora"
	"github.com/isgasho/cleora/output"
	"github.com/isgasho/cleora/sparse"
)

func run(ctx context.Context, cfg Config, logOut io.Writer) error {
	if logOut == nil {
		logOut = os.Stderr
	}
	logger, err := newLogger(logOut, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	opts, err := cfg.embedOptions(logger)
	if err != nil {
		return err
	}
	compression, err := output.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	b, err := readGraph(cfg.Input)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "loaded graph", "input", cfg.Input,
		"entities", b.Matrix().EntityCount(), "entries", b.Matrix().EntryCount())

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, cleora.WithMetricsCollector(cleora.NewPrometheusCollector(reg, "cleora")))
		stop := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer stop()
	}

	if cfg.Output == "-" {
		return embed(ctx, b, os.Stdout, compression, opts)
	}
	return writeAtomic(cfg.Output, func(dst io.Writer) error {
		return embed(ctx, b, dst, compression, opts)
	})
}

func embed(ctx context.Context, b *sparse.Builder, dst io.Writer, c output.Compression, opts []cleora.Option) error {
	w, err := output.NewTextWriter(dst, c)
	if err != nil {
		return err
	}
	_, err = cleora.Embed(ctx, b.Matrix(), b.Names(), w, opts...)
	return err
}

// writeAtomic runs write against a temporary file next to path and renames
// it into place only if write and close succeed. On failure nothing is left
// at path and the temporary file is removed.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("output permissions: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// readGraph builds a graph named after the input file's base name.
func readGraph(path string) (*sparse.Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b := sparse.NewBuilder(id)
	if _, err := sparse.ReadEdges(f, b); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *cleora.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
