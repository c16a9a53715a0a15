// Package build runs the keymap pipeline over a batch of discovered keymaps.
//
// Keymaps are independent, so Builder processes them concurrently with a
// bounded worker pool. A keymap that cannot be read or parsed is recorded
// as a failure and left out of the result; the rest of the batch carries on.
package build

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/logging"
	"github.com/conneroisu/keymapdoc/internal/types"
)

// MaxDefaultWorkers caps the worker count picked when none is configured.
const MaxDefaultWorkers = 8

// Result is the outcome of a batch. Keymaps keep the order of the input;
// failed keymaps are absent from it and listed in Failures.
type Result struct {
	Keymaps  []*keymap.Data
	Failures []kerrors.Failure
}

// Succeeded returns the number of keymaps built.
func (r *Result) Succeeded() int { return len(r.Keymaps) }

// Failed returns the number of keymaps dropped.
func (r *Result) Failed() int { return len(r.Failures) }

// Builder builds keymaps concurrently.
type Builder struct {
	keymaps *keymap.Builder
	workers int
	logger  logging.Logger
	metrics *BuildMetrics
	cache   *BuildCache
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers sets the worker count. Values below one select the default.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithCache reuses results for layout files whose content is unchanged.
func WithCache(cache *BuildCache) Option {
	return func(b *Builder) { b.cache = cache }
}

// DefaultWorkers returns min(NumCPU, MaxDefaultWorkers).
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxDefaultWorkers)
}

// NewBuilder creates a Builder around a keymap builder.
func NewBuilder(keymaps *keymap.Builder, opts ...Option) *Builder {
	b := &Builder{
		keymaps: keymaps,
		workers: DefaultWorkers(),
		logger:  logging.Nop(),
		metrics: NewBuildMetrics(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithComponent("build")
	return b
}

// Metrics returns the builder's metrics.
func (b *Builder) Metrics() *BuildMetrics {
	return b.metrics
}

// BuildOne builds a single keymap.
func (b *Builder) BuildOne(ctx context.Context, info types.KeymapInfo) (*keymap.Data, error) {
	start := time.Now()
	data, hit, err := b.build(info)
	b.metrics.RecordBuild(time.Since(start), hit, err)

	if err != nil {
		b.logger.Warn(ctx, err, "Skipping keymap", "keymap", info.ID, "path", info.Path)
		return nil, err
	}

	b.logger.Debug(ctx, "Built keymap",
		"keymap", data.ID,
		"layers", len(data.Layers),
		"symbols", len(data.AllSymbols),
		"cached", hit,
	)
	return data, nil
}

func (b *Builder) build(info types.KeymapInfo) (*keymap.Data, bool, error) {
	content, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, false, kerrors.ErrFileRead(info.Path, err).WithKeymap(info.ID)
	}

	var hash string
	if b.cache != nil {
		hash = ContentHash(content)
		if data, ok := b.cache.Get(info.Path, hash); ok && data.ID == info.ID {
			return data, true, nil
		}
	}

	data, err := b.keymaps.Parse(info, content)
	if err != nil {
		if b.cache != nil {
			b.cache.Invalidate(info.Path)
		}
		return nil, false, err
	}

	if b.cache != nil {
		b.cache.Set(info.Path, hash, data)
	}
	return data, false, nil
}

// BuildAll builds every keymap in infos. Cancelling ctx stops scheduling
// new keymaps; the partial result is returned together with ctx.Err().
func (b *Builder) BuildAll(ctx context.Context, infos []types.KeymapInfo) (*Result, error) {
	perf := logging.StartOperation(b.logger, "build_all")

	outputs := make([]*keymap.Data, len(infos))
	collector := kerrors.NewErrorCollector()

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(b.workers, len(infos))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				data, err := b.BuildOne(ctx, infos[i])
				if err != nil {
					collector.Add(infos[i].ID, "", err)
					continue
				}
				outputs[i] = data
			}
		}()
	}

	var cancelled error
schedule:
	for i := range infos {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break schedule
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		Keymaps:  make([]*keymap.Data, 0, len(infos)),
		Failures: collector.Failures(),
	}
	for _, data := range outputs {
		if data != nil {
			result.Keymaps = append(result.Keymaps, data)
		}
	}

	snap := b.metrics.Snapshot()
	b.logger.Info(ctx, "Processed keymaps",
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
		"total", len(infos),
		"cache_hits", snap.CacheHits,
		"avg_build", snap.AverageDuration,
		"success_rate", b.metrics.SuccessRate(),
	)
	if cancelled != nil {
		perf.EndWithError(ctx, cancelled)
		return result, cancelled
	}
	perf.End(ctx, "keymaps", len(infos))
	return result, nil
}
