package serialize

import "slices"

// Node is a JSON object that keeps its keys in insertion order.
// Values are string, float64, int64, bool, *Node or []any.
type Node struct {
	keys []string
	vals map[string]any
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{vals: make(map[string]any)}
}

// Set stores v under key. An existing key keeps its position.
func (n *Node) Set(key string, v any) {
	if n.vals == nil {
		n.vals = make(map[string]any)
	}
	if _, ok := n.vals[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.vals[key] = v
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (n *Node) Keys() []string {
	return slices.Clone(n.keys)
}

// Len returns the number of keys.
func (n *Node) Len() int {
	return len(n.keys)
}

// MarshalJSON encodes n with the package's canonical string and number
// encoding.
func (n *Node) MarshalJSON() ([]byte, error) {
	return Marshal(n)
}

// prepend returns a copy of n with key set first.
func (n *Node) prepend(key string, v any) *Node {
	out := NewNode()
	out.Set(key, v)
	for _, k := range n.keys {
		if k != key {
			out.Set(k, n.vals[k])
		}
	}
	return out
}
