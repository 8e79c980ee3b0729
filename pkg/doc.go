// Package pkg provides the core libraries of factoryflow, a throughput
// analyser for Factorio blueprints.
//
// # Overview
//
// factoryflow reads a blueprint, places its entities on a grid, turns the
// grid into a graph of production nodes and estimates how many items per
// second move through every node. Nodes that run at their full rate are
// reported as bottlenecks. The pkg directory is organized into three areas:
//
//  1. Domain logic: [factory], [catalog], [blueprint], [network], [report]
//  2. Output: [render/nodelink]
//  3. Infrastructure: [pipeline], [cache], [config], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow through factoryflow:
//
//	Blueprint string / JSON
//	         ↓
//	    [blueprint] package (decode, place entities via [catalog])
//	         ↓
//	    [factory] package (grid of components)
//	         ↓
//	    [network] package (build, compact, propagate purpose, allocate flow)
//	         ↓
//	    [report] package (read-only summary)
//	         ↓
//	    JSON / DOT / SVG output
//
// # Quick Start
//
//	cat, err := catalog.Default(catalog.Options{})
//	if err != nil {
//		return err
//	}
//	bp, err := blueprint.Decode(input)
//	if err != nil {
//		return err
//	}
//	layout, warnings, err := bp.Layout(cat)
//	if err != nil {
//		return err
//	}
//	net, err := network.Analyze(layout, network.Options{})
//	if err != nil {
//		return err
//	}
//	rep := report.Build(net, bp.Label, "")
//
// Most callers should use [pipeline.Runner] instead, which adds caching,
// observability hooks and rendering on top of the same steps.
//
// # Main Packages
//
// [factory] - Components, recipes, directions and the placement grid.
//
// [catalog] - Entity prototypes and recipes. Ships a built-in catalog and
// loads TOML or raw game data files; applies the inserter capacity bonus.
//
// [blueprint] - Blueprint exchange string and JSON decoding, and placement
// of blueprint entities onto a [factory.Layout].
//
// [network] - Graph construction, belt compaction, purpose propagation and
// pull-based flow allocation with bottleneck detection.
//
// [report] - Serializable summary of an analysed network.
//
// [render/nodelink] - Graphviz DOT and SVG diagrams of a report.
//
// [pipeline] - Decode, analyze and render with report and artifact caching.
//
// [cache] - File, in-memory LRU and Redis caches plus key derivation.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Error codes shared by the CLI and the HTTP server.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [buildinfo] - Version information set at build time.
//
// [factory]: github.com/matzehuels/factoryflow/pkg/factory
// [catalog]: github.com/matzehuels/factoryflow/pkg/catalog
// [blueprint]: github.com/matzehuels/factoryflow/pkg/blueprint
// [network]: github.com/matzehuels/factoryflow/pkg/network
// [report]: github.com/matzehuels/factoryflow/pkg/report
// [render/nodelink]: github.com/matzehuels/factoryflow/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/factoryflow/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/factoryflow/pkg/pipeline.Runner
// [cache]: github.com/matzehuels/factoryflow/pkg/cache
// [config]: github.com/matzehuels/factoryflow/pkg/config
// [errors]: github.com/matzehuels/factoryflow/pkg/errors
// [observability]: github.com/matzehuels/factoryflow/pkg/observability
// [buildinfo]: github.com/matzehuels/factoryflow/pkg/buildinfo
// [factory.Layout]: github.com/matzehuels/factoryflow/pkg/factory.Layout
package pkg
