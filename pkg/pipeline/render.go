package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/observability"
	"github.com/matzehuels/factoryflow/pkg/render/nodelink"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	artifacts, err := render(rep, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(rep *report.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	toDOT := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(rep, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = report.Marshal(rep)
		case FormatDOT:
			data = []byte(toDOT())
		case FormatSVG:
			data, err = nodelink.RenderSVG(toDOT())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
