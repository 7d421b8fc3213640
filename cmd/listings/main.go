// Package main provides the listings command: load a listings export, render
// the first window as cards and report the price-tier distribution.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"listingdeck/internal/charts"
	"listingdeck/internal/config"
	"listingdeck/internal/loader"
	"listingdeck/internal/logger"
	"listingdeck/internal/normalizer"
	"listingdeck/internal/pipeline"
	"listingdeck/internal/render"
	"listingdeck/internal/watch"
)

const defaultConfigPath = "configs/listings.yaml"

// Exit codes.
const (
	exitOK     = 0
	exitLoad   = 1
	exitUsage  = 2
	exitOutput = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("listings", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to YAML configuration file (default: "+defaultConfigPath+" when present)")
	envFile := fs.String("env-file", ".env", "Path to a .env file with LISTINGS_* overrides")
	source := fs.String("source", "", "Listings export: a file path or http(s) URL")
	window := fs.Int("window", 0, "Number of listings to render")
	workers := fs.Int("workers", 0, "Number of goroutines transforming listings")
	htmlPath := fs.String("html", "", "Write the HTML page to this path")
	markdownPath := fs.String("markdown", "", "Write a signed markdown report to this path")
	chartPath := fs.String("chart", "", "Write the price-tier chart to this path")
	jsonPath := fs.String("json", "", "Write cards and statistics as JSON to this path")
	quiet := fs.Bool("quiet", false, "Do not print cards to the terminal")
	watchMode := fs.Bool("watch", false, "Re-render whenever the source file changes")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if err := config.LoadEnvFiles(*envFile); err != nil {
		fmt.Fprintf(stderr, "❌ Failed to load %s: %v\n", *envFile, err)
		return exitUsage
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitUsage
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitUsage
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.SetSource(*source)
		case "window":
			cfg.Source.Window = *window
		case "workers":
			cfg.Pipeline.Workers = *workers
		case "html":
			cfg.Output.HTMLPath = *htmlPath
		case "markdown":
			cfg.Output.MarkdownPath = *markdownPath
		case "chart":
			cfg.Output.ChartPath = *chartPath
		case "json":
			cfg.Output.JSONPath = *jsonPath
		case "quiet":
			cfg.Output.Terminal = !*quiet
		case "watch":
			cfg.Watch.Enabled = *watchMode
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "❌ Invalid configuration: %v\n", err)
		return exitUsage
	}

	log := logger.New(stderr, cfg.Logging.Level)
	log.Debug("Configuration loaded", "config", cfg.String())

	p := pipeline.New(
		loader.NewLoaderWithConfig(&cfg.Source),
		normalizer.NewProcessor(),
		cfg.Pipeline.Workers,
		log,
	)

	src := cfg.Source.GetSource()

	cycle := func(ctx context.Context) error {
		_, err := p.Run(ctx, src, surfaces(cfg, stdout))

		return err
	}

	if cfg.Watch.Enabled {
		w := watch.New(src, cfg.Watch.GetMinInterval(), log, cycle)

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Watch stopped", "error", err)
			return exitOutput
		}

		log.Info("Watch stopped")

		return exitOK
	}

	if err := cycle(ctx); err != nil {
		var loadErr *loader.LoadError
		if errors.As(err, &loadErr) {
			return exitLoad
		}

		log.Error("Failed to write output", "error", err)

		return exitOutput
	}

	return exitOK
}

// loadConfig reads path, or the default config file when path is empty and
// the file exists, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.DefaultConfig(), nil
		}

		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	return cfg, nil
}

// surfaces builds a fresh set of rendering surfaces for one cycle.
func surfaces(cfg *config.Config, stdout io.Writer) render.Multi {
	src := cfg.Source.GetSource()

	var out render.Multi

	if cfg.Output.Terminal {
		out = append(out, render.NewTerminal(stdout, src, 0))
	}

	if cfg.Output.HTMLPath != "" {
		out = append(out, render.NewHTMLDocument(render.HTMLOptions{
			Path:   cfg.Output.HTMLPath,
			Source: src,
			Pretty: cfg.Output.PrettyPrint,
			Stamp:  true,
		}))
	}

	if cfg.Output.MarkdownPath != "" {
		out = append(out, render.NewMarkdown(cfg.Output.MarkdownPath, src))
	}

	if cfg.Output.ChartPath != "" {
		out = append(out, charts.NewTierChart(cfg.Output.ChartPath, charts.DefaultChartConfig()))
	}

	if cfg.Output.JSONPath != "" {
		out = append(out, render.NewJSONExport(cfg.Output.JSONPath))
	}

	return out
}
