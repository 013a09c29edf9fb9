package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/barcodegen/internal/common"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxNameLength caps file names derived from values.
const maxNameLength = 64

// ItemResult is the outcome of one manifest item.
type ItemResult struct {
	ID        string
	Index     int
	Value     string
	Symbology string
	File      string
	Bytes     int
	Duration  time.Duration
	// Skipped is set for items never rendered because the batch stopped.
	Skipped bool
	Err     error
}

type job struct {
	index int
	item  Item
	file  string
}

// Run renders items with a pool of cfg.Workers goroutines and writes one file
// per item into cfg.OutputDir. Results keep manifest order.
//
// Without ContinueOnError the first failure stops the batch and is returned
// together with the partial result.
func Run(ctx context.Context, items []Item, cfg *Config, progress ProgressCallback) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyManifest
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(items))

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch id: %w", err)
	}

	timer := common.NewTimer()
	files := outputNames(items, cfg.Format.Extension())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if progress != nil {
		progress.OnStart(len(items))
		defer progress.OnComplete()
	}

	jobs := make(chan job, len(items))
	results := make(chan ItemResult, len(items))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go worker(ctx, cfg, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- job{index: i, item: item, file: filepath.Join(cfg.OutputDir, files[i])}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]ItemResult, len(items))
	done := make([]bool, len(items))
	processed := 0
	var firstErr error

	for res := range results {
		ordered[res.Index] = res
		done[res.Index] = true
		processed++

		if res.Err != nil {
			slog.Warn("batch item failed", "batch", runID, "index", res.Index, "value", res.Value, "error", res.Err)
			if progress != nil {
				progress.OnError(res.Index, res.Err)
			}
			if firstErr == nil && !cfg.ContinueOnError {
				firstErr = fmt.Errorf("item %d (%q): %w", res.Index+1, res.Value, res.Err)
				cancel()
			}
		}
		if progress != nil {
			progress.OnProgress(processed, len(items))
		}
	}

	for i := range ordered {
		if !done[i] {
			ordered[i] = ItemResult{Index: i, Value: items[i].Value, Skipped: true}
		}
	}

	result := &Result{
		ID:          runID,
		Items:       ordered,
		Duration:    timer.Stop(),
		WorkerCount: workers,
	}
	slog.Info("batch finished", "batch", runID, "items", len(items),
		"succeeded", result.Succeeded(), "failed", result.Failed(), "duration", result.Duration)

	if firstErr != nil {
		return result, firstErr
	}
	// Parent cancellation
	if err := ctx.Err(); err != nil && processed < len(items) {
		return result, err
	}
	return result, nil
}

// worker renders jobs until the channel closes or ctx is cancelled.
func worker(ctx context.Context, cfg *Config, jobs <-chan job, results chan<- ItemResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			res := renderItem(cfg, j)
			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// renderItem renders one item and writes it to j.file. No file is written
// when rendering fails.
func renderItem(cfg *Config, j job) ItemResult {
	timer := common.NewTimer()
	res := ItemResult{Index: j.index, Value: j.item.Value, File: j.file}
	res.ID, _ = gonanoid.New()

	b, typ, err := cfg.builder(j.item)
	res.Symbology = typ.String()
	if err != nil {
		res.Err = err
		res.Duration = timer.Stop()
		return res
	}

	data, err := b.GenerateBytes(cfg.Format)
	if err != nil {
		res.Err = err
		res.Duration = timer.Stop()
		return res
	}
	if err := os.WriteFile(j.file, data, 0o600); err != nil {
		res.Err = fmt.Errorf("failed to write %s: %w", j.file, err)
		res.Duration = timer.Stop()
		return res
	}

	res.Bytes = len(data)
	res.Duration = timer.Stop()
	return res
}

// outputNames derives unique file names from item names or values.
func outputNames(items []Item, ext string) []string {
	names := make([]string, len(items))
	used := make(map[string]bool, len(items))
	for i, it := range items {
		base := it.Name
		if base == "" {
			base = it.Value
		}
		base = sanitizeName(base)

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name + ext
	}
	return names
}

// sanitizeName keeps letters, digits, dot, dash and underscore.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= maxNameLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		return "barcode"
	}
	return name
}
