// Package nodelink renders analysed factory networks as node-link diagrams.
//
// # Overview
//
// Every node of the compacted graph becomes a box and every parent/child
// edge an arrow in the direction items travel. Saturated nodes are filled
// black so bottlenecks stand out; synthetic containers are dashed.
//
// # Usage
//
// Convert a [report.Report] to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(rep, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: node labels include the recipe, flow per item, usage and
//     how many belts were compacted into the node.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
