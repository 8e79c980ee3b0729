// Package network turns a placed factory layout into a directed graph of
// production nodes and estimates the throughput of every node.
//
// # Overview
//
// Each component on a [factory.Grid] becomes a [Node]. Edges point in the
// direction items travel: a belt is the parent of the belt in front of it,
// an inserter is the child of the cell it picks from and the parent of the
// cell it drops onto. An assembler occupies several cells but is a single
// node.
//
// The analysis runs in four passes, all performed by [Analyze]:
//
//  1. [Build] walks the grid and wires nodes.
//  2. [Network.Compact] folds chains of identical belts into one node.
//  3. [Network.PropagatePurpose] decides which items each transport node
//     carries, starting from the fixed recipes of the assemblers.
//  4. [Network.Allocate] pulls flow from every sink and records how much of
//     each item passes through each node.
//
// # Basic Usage
//
//	cat, err := catalog.Default(catalog.Options{})
//	if err != nil {
//		return err
//	}
//	layout, _, err := bp.Layout(cat)
//	if err != nil {
//		return err
//	}
//	net, err := network.Analyze(layout, network.Options{})
//	if err != nil {
//		return err
//	}
//	for _, n := range net.Bottlenecks() {
//		fmt.Println(n)
//	}
//
// # Flow Model
//
// Allocation is pull-based and greedy. A sink asks its parents for as much as
// its rate allows; transport nodes clamp the request to their remaining
// headroom and forward it to their parents in declaration order. Assemblers
// scale the request into ingredient requests, shrink production to the
// scarcest ingredient and then give back whatever the other ingredients
// over-delivered (see [Network.TakeBackFlow]). A node whose flow reaches its
// rate is a bottleneck, and so is every node it subsumed during compaction.
//
// Requests carry the set of nodes currently on the request path. A node that
// is asked again while it is still answering grants nothing, so belt loops
// that survive compaction cannot recurse forever.
//
// # Diagnostics
//
// Problems that do not invalidate the graph are collected as [Diagnostic]
// values: components with no wiring rule and multi-ingredient assemblers
// whose suppliers could not be determined. Only a graph shape that cannot be
// compacted aborts the run, with an error wrapping [ErrStructural].
//
// # Concurrency
//
// A Network is built and mutated by a single analysis run and is not safe
// for concurrent use. Independent runs over different layouts may proceed in
// parallel.
package network
