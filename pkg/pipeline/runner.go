package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/catalog"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/network"
	"github.com/matzehuels/factoryflow/pkg/observability"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner does not store results. Multiple goroutines can safely use the
// same Runner with different options; every run builds its own network.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Catalog resolves blueprint entities. CatalogHash identifies it in
	// cache keys; leave it empty for the embedded catalog.
	Catalog     *catalog.Catalog
	CatalogHash string

	// TTL is how long reports stay cached. Zero means [cache.TTLReport].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer, using the
// embedded catalog.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{BlueprintHash: blueprintHash(opts.Blueprint)}

	rep, net, hit, err := r.AnalyzeWithCacheInfo(ctx, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Report = rep
	result.Network = net
	result.CacheInfo.ReportHit = hit
	result.Stats.Nodes = len(rep.Nodes)
	result.Stats.Entities = len(rep.Entities)
	result.Stats.Bottlenecks = len(rep.Bottlenecks)
	result.Stats.Diagnostics = len(rep.Diagnostics)

	r.Logger.Info("analyzed blueprint",
		"label", rep.Label,
		"nodes", result.Stats.Nodes,
		"bottlenecks", result.Stats.Bottlenecks,
		"cached", hit)
	for _, w := range rep.Warnings {
		r.Logger.Warn(w)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, rep, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo returns the report for opts.Blueprint, from the cache
// when possible. The network is nil on a cache hit. Stage timings are
// recorded into stats when it is non-nil.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, opts Options, stats *Stats) (*report.Report, *network.Network, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	if stats == nil {
		stats = &Stats{}
	}

	key := r.Keyer.ReportKey(blueprintHash(opts.Blueprint), opts.ReportKeyOpts(r.CatalogHash))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if rep, err := report.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				return rep, nil, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	cat, err := r.catalog(opts)
	if err != nil {
		return nil, nil, false, err
	}

	decodeStart := time.Now()
	bp, layout, warnings, err := Decode(ctx, cat, opts.Blueprint)
	if err != nil {
		return nil, nil, false, err
	}
	stats.DecodeTime = time.Since(decodeStart)

	analyzeStart := time.Now()
	rep, net, err := Analyze(ctx, bp.Label, layout, opts)
	if err != nil {
		return nil, nil, false, err
	}
	rep.Warnings = warnings
	stats.AnalyzeTime = time.Since(analyzeStart)

	if data, err := report.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			opts.Logger.Debug("cache set failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return rep, net, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	reportHash, err := contentHash(rep)
	if err != nil {
		return nil, false, err
	}

	// JSON is the report itself and always carries the current run ID, so it
	// is rendered fresh and never cached.
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	hit := !opts.Refresh
	for _, format := range opts.Formats {
		if format == FormatJSON {
			missing = append(missing, format)
			continue
		}
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		data, ok, err := r.Cache.Get(ctx, key)
		if err != nil || !ok {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			missing = append(missing, format)
			hit = false
			continue
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	hit = hit && len(artifacts) > 0
	if len(missing) == 0 {
		return artifacts, hit, nil
	}

	ro := opts
	ro.Formats = missing
	rendered, err := Render(ctx, rep, ro)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if format == FormatJSON {
			continue
		}
		key := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, hit, nil
}

// contentHash hashes a report without its run ID, so re-running an identical
// analysis finds the artifacts of the previous run.
func contentHash(rep *report.Report) (string, error) {
	stripped := *rep
	stripped.RunID = ""
	data, err := report.Marshal(&stripped)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize report for cache key")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// catalog returns the runner's catalog with the run's research level
// applied.
func (r *Runner) catalog(opts Options) (*catalog.Catalog, error) {
	cat := r.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(catalog.Options{}); err != nil {
			return nil, err
		}
	}
	return cat.WithOptions(catalog.Options{InserterCapacityBonus: opts.InserterCapacityBonus})
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLReport
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func blueprintHash(s string) string {
	return cache.Hash([]byte(strings.TrimSpace(s)))
}
