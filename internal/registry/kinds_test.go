package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provgraph/internal/schema"
)

func TestParseISODate(t *testing.T) {
	for _, s := range []string{"1890", "1890-05", "1890-05-01", "1890-05-01T10:30:00", "1890-05-01T10:30:00Z", "1890-05-01T10:30:00+01:00"} {
		_, err := ParseISODate(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "May 1890", "1890-13-01", "1890/05/01"} {
		_, err := ParseISODate(s)
		assert.Error(t, err, s)
	}
}

func TestParseValueKind(t *testing.T) {
	k, err := ParseValueKind("number")
	require.NoError(t, err)
	assert.Equal(t, KindNumber, k)

	_, err = ParseValueKind("float")
	assert.Error(t, err)
}

func TestScalarRange(t *testing.T) {
	assert.Equal(t, rangeString, scalarRange(schema.NSXSD+"string"))
	assert.Equal(t, rangeNumber, scalarRange(schema.NSXSD+"integer"))
	assert.Equal(t, rangeDate, scalarRange(schema.NSXSD+"gYear"))
	assert.Equal(t, rangeBool, scalarRange(schema.NSXSD+"boolean"))
	assert.Equal(t, rangeLiteral, scalarRange(schema.NSRDFS+"Literal"))
	assert.Equal(t, rangeLiteral, scalarRange(schema.NSXSD+"hexBinary"))
	assert.Equal(t, rangeAny, scalarRange(""))
	assert.Equal(t, rangeAny, scalarRange("urn:unknown"))
}
