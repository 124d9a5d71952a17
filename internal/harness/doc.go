// Package harness runs document conformance scenarios.
//
// A scenario names a schema, the extensions to apply on top of it, and an
// entity graph built from ordered property assignments. The harness
// compiles the schema, builds the graph, renders the root entity, and
// checks the rendered document against assertions and a golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: purchase
//	description: "A painting sold for 500 USD"
//	schema:
//	  ontology:
//	    - ../ontology/cidoc-mini.rdf
//	  key_order: ../ontology/key_order.yaml
//	  names: ../ontology/names.yaml
//	extensions: [rdf_value]
//	root: sale
//	entities:
//	  - key: sale
//	    class: Purchase
//	    slug: sale-1
//	    set:
//	      - property: sales_price
//	        ref: price
//	  - key: price
//	    class: MonetaryAmount
//	    set:
//	      - property: value
//	        number: 500
//	assertions:
//	  - type: key_order
//	    keys: ["@context", id, type, sales_price]
//	  - type: path_equals
//	    path: [sales_price, value]
//	    value: 500
//
// The schema is either a compiled table (schema.table) or ontology sources
// with optional override tables. Paths are relative to the scenario file.
//
// An entity declared with term (painting, USD, cm, ...) is the shared
// vocabulary node of that name; every key naming the same term resolves
// to one node.
//
// An assignment carries exactly one value: string, number, integer, bool,
// date, text (with lang), or ref (the key of another entity). An
// assignment with expect_error must be rejected with that error kind
// (unknown_property, domain, range); any other rejection fails the
// scenario.
//
// # Assertion Types
//
//   - key_order: the keys of the node at path, in order
//   - path_equals: the value at path
//   - path_count: the length of the array at path
//   - path_absent: nothing is rendered at path
//   - warnings: the number of warn-only domain violations
//
// # Deterministic Output
//
// Anonymous entities draw identifiers from testutil.SequenceIDGenerator,
// and each run uses a fresh in-memory store with a sequence clock, so
// rendered documents are byte-identical across runs.
package harness
