// Package pipeline runs one load cycle: load the source, turn each record
// into a card, then hand cards and statistics to a rendering surface.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"listingdeck/internal/loader"
	"listingdeck/internal/models"
	"listingdeck/internal/normalizer"
	"listingdeck/internal/render"
	"listingdeck/internal/stats"
)

// Logger is the logging surface the pipeline needs. *logger.Logger
// satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Source loads a window of raw records. *loader.Loader satisfies it.
type Source interface {
	Load(ctx context.Context, source string) (*loader.Result, error)
}

// Pipeline wires a source, a processor and a logger.
type Pipeline struct {
	source    Source
	processor *normalizer.Processor
	workers   int
	log       Logger
}

// New creates a pipeline. Workers below 1 process items sequentially.
func New(source Source, processor *normalizer.Processor, workers int, log Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}

	return &Pipeline{
		source:    source,
		processor: processor,
		workers:   workers,
		log:       log,
	}
}

type itemResult struct {
	card     models.Card
	warnings []normalizer.Warning
	err      error
}

// Run executes one load cycle against surface and flushes it. A load
// failure calls surface.Failure once and is returned; no cards or
// statistics are rendered for that cycle. Per-item problems never fail the
// cycle.
func (p *Pipeline) Run(ctx context.Context, source string, surface render.Surface) (models.Report, error) {
	start := time.Now()

	result, err := p.source.Load(ctx, source)
	if err != nil {
		p.log.Error("Failed to load listings", "source", source, "error", err)
		surface.Failure(err)

		if flushErr := surface.Flush(); flushErr != nil {
			p.log.Error("Failed to write output", "error", flushErr)
		}

		return models.Report{}, err
	}

	p.log.Info("Loaded listings",
		"source", result.Source,
		"total", result.Total,
		"window", len(result.Records),
		"bytes", result.Size,
		"duration", result.Duration,
	)

	results := p.processAll(result.Records)

	cards := make([]models.Card, 0, len(results))
	skipped := 0

	for i, r := range results {
		if r.err != nil {
			skipped++
			p.log.Warn("Skipping listing", "index", i, "error", r.err)

			continue
		}

		for _, w := range r.warnings {
			p.log.Warn("Listing field replaced by fallback", "index", i, "field", w.Field, "value", w.Value)
		}

		cards = append(cards, r.card)
		surface.Card(r.card)
	}

	report := stats.Summarize(result.Source, cards, result.Total, len(result.Records), skipped)
	report.SourceChecksum = result.Checksum

	surface.Stats(report)

	p.log.Info(fmt.Sprintf("%d rendered, %d skipped", report.Rendered, report.Skipped),
		models.TierCheap.Label(), report.Tiers.Cheap,
		models.TierMid.Label(), report.Tiers.Mid,
		models.TierExpensive.Label(), report.Tiers.Expensive,
		"duration", time.Since(start),
	)

	if err := surface.Flush(); err != nil {
		return report, fmt.Errorf("failed to write output: %w", err)
	}

	return report, nil
}

// processAll transforms every record, keeping results in source order.
func (p *Pipeline) processAll(records []json.RawMessage) []itemResult {
	results := make([]itemResult, len(records))

	if p.workers == 1 {
		for i, raw := range records {
			results[i] = p.processOne(raw, i)
		}

		return results
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, p.workers)
	)

	for i, raw := range records {
		wg.Add(1)

		go func(raw json.RawMessage, index int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[index] = p.processOne(raw, index)
		}(raw, i)
	}

	wg.Wait()

	return results
}

func (p *Pipeline) processOne(raw json.RawMessage, index int) itemResult {
	card, warnings, err := p.processor.Process(raw, index)

	return itemResult{card: card, warnings: warnings, err: err}
}
