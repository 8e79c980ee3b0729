// Package render groups the visual outputs of an analysis run.
//
// # Overview
//
// Rendering works on a finished [report.Report], never on the live network,
// so cached reports can be rendered again without re-running the analysis.
// The only renderer today is [nodelink], which draws the compacted graph as
// a Graphviz diagram:
//
//	dot := nodelink.ToDOT(rep, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// JSON output is produced by [report.Marshal] and needs no renderer.
//
// [report.Report]: github.com/matzehuels/factoryflow/pkg/report.Report
// [report.Marshal]: github.com/matzehuels/factoryflow/pkg/report.Marshal
// [nodelink]: github.com/matzehuels/factoryflow/pkg/render/nodelink
package render
