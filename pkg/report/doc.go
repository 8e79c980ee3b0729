// Package report summarizes an analysed [network.Network] for users and
// downstream tools.
//
// A [Report] has two views of the same result. Nodes describe the compacted
// graph the allocator worked on. Entities describe every placed component
// that took part in it: a belt that compaction folded into its upstream
// neighbor gets the flow and usage of that neighbor but keeps the parents
// and children it had in the original layout.
//
// Blueprint-level fields list the entities at the edges of the graph
// (EntitiesInput, EntitiesOutput), the flow entering and leaving it summed
// per item (ItemsInput, ItemsOutput) and every saturated entity
// (Bottlenecks).
//
// Reports are plain data and round-trip through [WriteJSON] and [ReadJSON].
package report
