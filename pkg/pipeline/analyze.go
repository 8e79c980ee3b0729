package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/factoryflow/pkg/blueprint"
	"github.com/matzehuels/factoryflow/pkg/cache"
	"github.com/matzehuels/factoryflow/pkg/catalog"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
	"github.com/matzehuels/factoryflow/pkg/network"
	"github.com/matzehuels/factoryflow/pkg/observability"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// OpenCatalog loads the catalog at path, or the embedded vanilla catalog
// when path is empty. The returned hash identifies the catalog contents in
// cache keys and is empty for the embedded catalog.
func OpenCatalog(path string) (*catalog.Catalog, string, error) {
	if path == "" {
		cat, err := catalog.Default(catalog.Options{})
		return cat, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog %s", path)
	}
	cat, err := catalog.Open(path, catalog.Options{})
	if err != nil {
		return nil, "", err
	}
	return cat, cache.Hash(data), nil
}

// Decode parses a blueprint and places its entities on a grid. Entities that
// could not be placed are returned as warnings.
func Decode(ctx context.Context, cat *catalog.Catalog, input string) (*blueprint.Blueprint, *factory.Layout, []string, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnDecodeStart(ctx, len(input))

	bp, err := blueprint.Decode(input)
	if err != nil {
		hooks.OnDecodeComplete(ctx, "", 0, time.Since(start), err)
		return nil, nil, nil, err
	}
	layout, warnings, err := bp.Layout(cat)
	if err != nil {
		hooks.OnDecodeComplete(ctx, bp.Label, 0, time.Since(start), err)
		return nil, nil, nil, err
	}
	hooks.OnDecodeComplete(ctx, bp.Label, len(layout.Components()), time.Since(start), nil)
	return bp, layout, warnings, nil
}

// Analyze runs the network analysis over a placed layout and summarizes it.
// Diagnostics are logged at warn level and kept on the report.
func Analyze(ctx context.Context, label string, layout *factory.Layout, opts Options) (*report.Report, *network.Network, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnAnalyzeStart(ctx, label, len(layout.Components()))

	net, err := network.Analyze(layout, network.Options{UnboundedRate: opts.UnboundedRate})
	if err != nil {
		if stderrors.Is(err, network.ErrStructural) {
			err = errors.Wrap(errors.ErrCodeStructuralGraph, err, "analyze %q", label)
		}
		hooks.OnAnalyzeComplete(ctx, label, observability.AnalyzeStats{}, time.Since(start), err)
		return nil, nil, err
	}

	for _, d := range net.Diagnostics() {
		opts.Logger.Warn(d.Message, "node", d.Component, "kind", d.Kind)
	}

	rep := report.Build(net, label, uuid.NewString())
	hooks.OnAnalyzeComplete(ctx, label, observability.AnalyzeStats{
		Nodes:       len(rep.Nodes),
		Subsumed:    len(rep.Entities) - len(rep.Nodes),
		Bottlenecks: len(rep.Bottlenecks),
		Diagnostics: len(rep.Diagnostics),
	}, time.Since(start), nil)
	return rep, net, nil
}
