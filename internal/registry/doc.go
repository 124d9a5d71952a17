// Package registry holds the runtime class hierarchy and property index
// built from compiled schema records, and validates every property
// assignment against them.
//
// A Registry is built once with Load and is read-only afterwards except
// through RegisterClass, RegisterProperty and RegisterValueCoercion, which
// take the write lock. Queries and ValidateAssignment take the read lock
// and are safe for concurrent use.
//
// Class ancestry is precomputed at load time: every class carries the set
// of its ancestors (itself included), so domain and range checks are a
// single set lookup.
package registry
