// Package ontology reads RDFS/OWL class and property declarations into an
// in-memory term graph for the schema compiler.
//
// Sources are decoded to triples (RDF/XML, Turtle or N-Triples) and folded
// into one Term per URI. Triples may arrive in any order: a URI used as a
// range or parent before its declaration is resolved once the declaration is
// seen, and repeated declarations update the existing Term.
//
// The reader validates nothing beyond the presence of a label on every
// declared term.
package ontology
