package compiler

import (
	"fmt"
	"strings"
)

// Compile error codes (E200-E299)
const (
	ErrMissingLabel      = "E201" // declared term has no label
	ErrUnknownKind       = "E202" // term is neither class nor property
	ErrOverrideMalformed = "E203" // override table cannot be parsed
	ErrNameCollision     = "E204" // two terms derive the same short name
)

// CompileError is one problem found while compiling an ontology.
type CompileError struct {
	Code    string `json:"code"`
	URI     string `json:"uri,omitempty"`
	Message string `json:"message"`
}

func (e *CompileError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.URI, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// CompileErrors collects every CompileError of one run.
type CompileErrors []*CompileError

func (es CompileErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Codes returns the error codes in order.
func (es CompileErrors) Codes() []string {
	codes := make([]string, len(es))
	for i, e := range es {
		codes[i] = e.Code
	}
	return codes
}
