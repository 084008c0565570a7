// Package poincare runs batches of independent particles over a shared
// equilibrium, data-parallel across a bounded worker pool.
//
// Each worker owns its orbit.System (and therefore its accelerator pair),
// its solver scratch and its output slot, so the hot path carries no locks.
// The equilibrium components are shared read-only. Per-particle terminal
// statuses never abort the batch; the aggregate result carries a status
// per index.
package poincare
