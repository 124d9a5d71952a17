package testutil

import "fmt"

// SequenceIDGenerator hands out predictable urn:uuid identifiers for
// anonymous entities. It satisfies model.IDGenerator.
//
// The n-th identifier is urn:uuid:00000000-0000-4000-8000-<n as 12 digits>.
type SequenceIDGenerator struct {
	clock *DeterministicClock
}

// NewSequenceIDGenerator starts a generator at 1.
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{clock: NewDeterministicClock()}
}

// NewID returns the next identifier.
func (g *SequenceIDGenerator) NewID() string {
	return SequenceID(g.clock.Next())
}

// Reset restarts the sequence at 1.
func (g *SequenceIDGenerator) Reset() {
	g.clock.Reset()
}

// SequenceID formats the n-th identifier of a SequenceIDGenerator.
func SequenceID(n int64) string {
	return fmt.Sprintf("urn:uuid:00000000-0000-4000-8000-%012d", n)
}
