// Package extension declares schema additions applied to a loaded
// registry: classes, properties and value coercions that the compiled
// ontology does not carry.
//
// Definitions come from CUE files (Load) or from the built-in deployment
// extensions (Payment, SchemaProperties, RDFValue). Apply registers them
// through the registry's Register* API, so every addition is validated
// and logged the same way regardless of its source.
package extension
