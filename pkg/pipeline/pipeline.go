// Package pipeline provides the analysis pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: parse the blueprint string and place it on a grid using the
//     runner's catalog
//  2. Analyze: build, compact, propagate purposes and allocate flow
//     ([network.Analyze]), then summarize the result as a [report.Report]
//  3. Render: produce the requested artifacts (report JSON, Graphviz DOT,
//     SVG)
//
// Reports and artifacts are cached. A report is keyed by the blueprint hash
// and every option that changes the analysis; an artifact by the report hash
// and its render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Blueprint: string(data),
//	    Formats:   []string{"json", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/network"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON so the server can
// decode it straight from a request body.
type Options struct {
	// Blueprint is an exchange string or the decoded blueprint JSON.
	Blueprint string `json:"blueprint"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // flow and usage in rendered labels
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached reports and artifacts

	InserterCapacityBonus int     `json:"inserter_capacity_bonus,omitempty"`
	UnboundedRate         float64 `json:"unbounded_rate,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateBlueprintInput(o.Blueprint); err != nil {
		return err
	}
	if err := errors.ValidateCapacityBonus(o.InserterCapacityBonus); err != nil {
		return err
	}
	if o.UnboundedRate < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "unbounded rate must not be negative")
	}
	if o.UnboundedRate == 0 {
		o.UnboundedRate = network.DefaultUnboundedRate
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ReportKeyOpts returns the cache key options for the report.
func (o *Options) ReportKeyOpts(catalogHash string) cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		Catalog:               catalogHash,
		InserterCapacityBonus: o.InserterCapacityBonus,
		UnboundedRate:         o.UnboundedRate,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Report *report.Report

	// Network is the analysed graph. It is nil when the report came from the
	// cache.
	Network *network.Network

	// BlueprintHash identifies the input blueprint.
	BlueprintHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities    int
	Nodes       int
	Bottlenecks int
	Diagnostics int

	DecodeTime  time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // report came from cache; decode and analyze were skipped
	RenderHit bool // every artifact came from cache
}
