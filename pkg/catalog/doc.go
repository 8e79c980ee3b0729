// Package catalog provides entity prototypes and recipes, and turns named
// placements into [factory.Component] values with concrete throughput rates.
//
// # Sources
//
// A [Catalog] is loaded from one of three places:
//
//   - [Default]: the embedded vanilla catalog (TOML)
//   - [LoadTOML]: a catalog in the same TOML format, for modded games
//   - [LoadRaw]: the game's data-raw JSON dump, keyed by prototype category
//
// [Open] picks the loader from the file extension.
//
// # Rate Model
//
// Rates are derived from prototype data the way the game computes them:
//
//   - Belts, underground belts and splitters move speed × 60 × 4 × 2 items
//     per second (60 ticks, 4 items per tile, 2 lanes).
//   - Inserters move rotation_speed × 60 items per second, multiplied by the
//     inserter capacity bonus research level (see [Options]).
//   - Assemblers produce result_count / (energy_required / crafting_speed)
//     items per second.
//   - Containers are unbounded.
//
// Prototype types without a wiring rule (furnaces, for example) still
// produce a component, with [factory.KindUnknown], so that the graph builder
// can report them.
package catalog
