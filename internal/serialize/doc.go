// Package serialize renders an entity graph as an ordered JSON-LD style
// document.
//
// A document is a tree of *Node values whose keys keep the order they
// were set in. Serializer walks the graph from a root entity: @context
// first, then id and type, then the assigned properties by registry rank
// with ties broken by assignment order. An entity reached a second time is
// written as an {"id", "type"} reference, which also terminates cycles.
//
// Encoding is deterministic: strings are NFC-normalized, HTML characters
// and U+2028/U+2029 are written literally, and floats use the shortest
// representation that round-trips.
package serialize
