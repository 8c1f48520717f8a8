// Package work holds the heterogeneous closure containers driven by the
// scheduler: Queue, Bucket and Set.
//
// Three shapes of work can be stored side by side:
//
//   - a run-once func(), invoked exactly once;
//   - a repeatable func() StopCondition, invoked until it returns Stop;
//   - an aggregate (a Set, a Queue or a Bucket) pushed as a single slot.
//
// An aggregate keeps its place relative to its neighbours and is expanded in
// place, preserving its internal order, only when it reaches the front of a
// Bucket. Pushing an aggregate moves its contents: the argument is left empty
// and can be reused.
//
// Nothing in this package is safe for concurrent use.
package work
