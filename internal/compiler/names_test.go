package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/provgraph/internal/schema"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		uri   string
		kind  schema.Kind
		names map[string]string
		want  string
	}{
		{crm + "E22_Man-Made_Object", schema.KindClass, nil, "ManMadeObject"},
		{crm + "E52_Time-Span", schema.KindClass, nil, "TimeSpan"},
		{crm + "E1_CRM_Entity", schema.KindClass, nil, "CRMEntity"},
		{crm + "E999_Part_of_Thing", schema.KindClass, nil, "PartOfThing"},
		{crm + "E998_Move_or_Stay", schema.KindClass, nil, "MoveOrStay"},
		{schema.NSLA + "Set", schema.KindClass, nil, "Set"},
		{crm + "P4_has_time-span", schema.KindProperty, nil, "timespan"},
		{crm + "P108i_was_produced_by", schema.KindProperty, nil, "produced_by"},
		{crm + "P1_is_identified_by", schema.KindProperty, nil, "identified_by"},
		{crm + "P179_had_sales_price", schema.KindProperty, nil, "sales_price"},
		{crm + "P82a_begin_of_the_begin", schema.KindProperty, nil, "begin_of_the_begin"},
		{crm + "P24_transferred_title_of", schema.KindProperty, nil, "transferred_title_of"},
		{schema.NSLA + "has_member", schema.KindProperty, nil, "member"},
		{schema.NSLA + "equivalent", schema.KindProperty, nil, "equivalent"},
		{crm + "P2_has_type", schema.KindProperty, map[string]string{"P2": "classified_as"}, "classified_as"},
		{crm + "P2_has_type", schema.KindProperty, map[string]string{crm + "P2_has_type": "kind"}, "kind"},
		{schema.NSLA + "has_member", schema.KindProperty, map[string]string{"has_member": "members"}, "members"},
	}
	for _, tt := range tests {
		t.Run(schema.LocalName(tt.uri), func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveName(tt.uri, tt.kind, tt.names))
		})
	}
}

func TestSplitCode(t *testing.T) {
	code, rest := SplitCode("P82a_begin_of_the_begin")
	assert.Equal(t, "P82a", code)
	assert.Equal(t, "begin_of_the_begin", rest)

	code, rest = SplitCode("P9i_forms_part_of")
	assert.Equal(t, "P9i", code)
	assert.Equal(t, "forms_part_of", rest)

	code, rest = SplitCode("has_member")
	assert.Empty(t, code)
	assert.Equal(t, "has_member", rest)
}
