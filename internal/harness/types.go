package harness

import (
	"encoding/json"

	"github.com/roach88/provgraph/internal/serialize"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assignment behaved as
	// expected and every assertion held.
	Pass bool `json:"pass"`

	// Document is the rendered root entity, indented with two spaces.
	Document json.RawMessage `json:"document,omitempty"`

	// SchemaHash identifies the schema version the document was built
	// against.
	SchemaHash string `json:"schema_hash,omitempty"`

	// DocumentHash is the content hash of Document.
	DocumentHash string `json:"document_hash,omitempty"`

	// Warnings lists warn-only domain violations in assignment order.
	Warnings []string `json:"warnings,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	doc *serialize.Node
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Warnings: []string{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Node returns the rendered document tree.
func (r *Result) Node() *serialize.Node {
	return r.doc
}
