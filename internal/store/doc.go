// Package store provides SQLite-backed storage for compiled schema
// versions and serialized documents.
//
//   - schema_versions: one row per distinct Schema Table, keyed by its
//     content hash. Saving the same table twice is a no-op.
//   - documents: serialized root documents keyed by (entity id, content
//     hash), each pinned to the schema version it was validated against.
//
// # Ordering
//
// Rows carry a seq from a logical clock, never a timestamp. Every list
// query orders by seq ASC with a binary-collated key as the tie breaker,
// so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
