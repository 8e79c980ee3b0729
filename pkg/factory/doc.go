// Package factory defines the static model of a factory layout: placed
// components, recipes, items, and the grid that positions them.
//
// # Overview
//
// A factory layout is a rectangular grid of cells. Each cell optionally
// references a [Component], the immutable description of a placed production
// element (belt, inserter, assembler, container, underground belt, splitter).
// Components spanning several cells, such as 3×3 assemblers or two-lane
// splitters, are referenced by the same pointer from every cell they occupy.
//
// The [Grid] interface is the contract the graph engine in
// [github.com/matzehuels/factoryflow/pkg/network] consumes. [Layout] is the
// in-memory implementation produced by the blueprint decoder.
//
// # Rates
//
// Every rate in this package is expressed in items per second. A component
// with a zero [Component.Rate] is unbounded (containers); see
// [Component.Bounded].
//
// # Directions
//
// Directions use the game's 8-way encoding restricted to the four cardinal
// values: [North] (0), [East] (2), [South] (4) and [West] (6). Blueprints omit
// the direction of north-facing entities, so the zero value is [North].
//
// # Synthetic Containers
//
// Inserters always need a concrete drop target. [Layout.FillDropTargets]
// places a virtual, unbounded container on every empty drop cell before the
// graph is built.
package factory
