package serialize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"integral float", float64(500), "500"},
		{"fraction", 0.1, "0.1"},
		{"small float", 1e-7, "1e-7"},
		{"large float", 1e21, "1e+21"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty node", NewNode(), "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalKeepsNodeOrder(t *testing.T) {
	n := NewNode()
	n.Set("zebra", 1)
	n.Set("alpha", []any{"x", int64(2)})
	inner := NewNode()
	inner.Set("b", true)
	inner.Set("a", false)
	n.Set("mid", inner)

	got, err := Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"alpha":["x",2],"mid":{"b":true,"a":false}}`, string(got))
}

func TestMarshalStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html not escaped", "<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{"quotes and backslash", `say "hi" \ bye`, `"say \"hi\" \\ bye"`},
		{"control characters", "a\nb\tc", `"a\nb\tc"`},
		{"nfc normalization", "Cafe\u0301", "\"Caf\u00e9\""},
		{"line separator literal", "a\u2028b\u2029c", "\"a\u2028b\u2029c\""},
		{"escaped text kept", `\u2028`, `"\\u2028"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Marshal(math.NaN())
	assert.Error(t, err)

	n := NewNode()
	n.Set("value", math.Inf(1))
	_, err = Marshal(n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"value"`)
}

func TestMarshalRejectsUnsupported(t *testing.T) {
	_, err := Marshal(struct{}{})
	assert.Error(t, err)
	_, err = Marshal([]any{map[string]int{"a": 1}})
	assert.Error(t, err)
}

func TestMarshalIndent(t *testing.T) {
	n := NewNode()
	n.Set("id", "x")
	n.Set("list", []any{1})

	got, err := MarshalIndent(n, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": \"x\",\n  \"list\": [\n    1\n  ]\n}", string(got))

	flat, err := MarshalIndent(n, "")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x","list":[1]}`, string(flat))
}

func TestNodeSetReplacesInPlace(t *testing.T) {
	n := NewNode()
	n.Set("a", 1)
	n.Set("b", 2)
	n.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, n.Keys())
	v, ok := n.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = n.Get("missing")
	assert.False(t, ok)

	var zero Node
	zero.Set("k", "v")
	assert.Equal(t, 1, zero.Len())
}

func TestNodeMarshalJSON(t *testing.T) {
	n := NewNode()
	n.Set("label", "x<y")
	got, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"label":"x<y"}`, string(got))
}
