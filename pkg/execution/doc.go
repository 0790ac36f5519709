// Package execution is the root of shardexec's query execution engine.
//
// The engine uses the iterator (volcano) model: every operator implements the
// [shardexec/pkg/iterator.Operator] contract (Init / MoveNext / Current /
// Close). Operators are composed into a tree; calling MoveNext on the root
// pulls one row at a time through the entire pipeline. Only blocking
// operators (sort, aggregate, the buffered join side and memory-mode scans)
// materialise intermediate results.
//
// This package holds what every operator of one query shares: the immutable
// [Context] and the [ExecutorEngine] that fans scans out to data sources.
//
// # Sub-packages
//
//   - [shardexec/pkg/execution/scan]        – Leaf scan over routed data
//     sources and the adapter from raw results to operators.
//   - [shardexec/pkg/execution/setops]      – Fan-in: ordered union and
//     k-way merge sort with offset/fetch.
//   - [shardexec/pkg/execution/query]       – Calc (filter/project), full
//     sort, bounded top-N and limit.
//   - [shardexec/pkg/execution/aggregation] – Hash aggregate with COUNT,
//     SUM, AVG, MIN and MAX.
//   - [shardexec/pkg/execution/join]        – Nested-loop join (INNER, LEFT,
//     SEMI, ANTI) over a buffered inner side.
//
// # Execution flow
//
// The planner package turns a physical plan tree into an operator tree
// bottom-up. The caller then drives the root with MoveNext/Current until it
// reports end of stream, and closes it, which releases every cursor and
// connection below.
package execution
