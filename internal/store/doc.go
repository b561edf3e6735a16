// Package store provides SQLite-backed storage for the compilation ledger.
//
// Every compile run can be recorded with its corpus hash, its report
// counts, the compiled vectors in emission order and its diagnostics:
//   - runs: one row per compile, identified by a UUIDv7
//   - vectors: compiled vectors keyed by (run_id, position)
//   - diagnostics: recoverable problems keyed by (run_id, position)
//
// Runs are ordered by seq, vectors and diagnostics by position, so every
// query result is deterministic. Vector IDs are the content addresses
// computed in internal/ir, which lets two runs be compared by set
// difference.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
