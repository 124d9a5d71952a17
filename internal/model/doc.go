// Package model provides ontology-typed entities whose every property
// assignment is validated by a registry.Registry.
//
// Entities are created through a Factory, which carries the registry, the
// base URL for identifier synthesis, and the default context URI. An
// entity's properties keep their first-assignment order and every value
// sequence keeps assignment order; nothing is deduplicated. Entities may
// reference each other in cycles.
//
// Entities are not safe for concurrent mutation.
package model
