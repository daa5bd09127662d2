package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralphymoto/volatility/vtypes"
)

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		ok    bool
		depth int
		id    string
		kind  string
		attrs map[string]string
	}{
		{
			name:  "member with attributes",
			line:  "<2><1442><DW_TAG_member> DW_AT_name<fs> DW_AT_type<<1446>> DW_AT_data_member_location<DW_OP_plus_uconst 476>",
			ok:    true,
			depth: 2,
			id:    "1442",
			kind:  "DW_TAG_member",
			attrs: map[string]string{
				"DW_AT_name":                 "fs",
				"DW_AT_type":                 "<1446",
				"DW_AT_data_member_location": "DW_OP_plus_uconst 476",
			},
		},
		{
			name:  "compile unit",
			line:  "<0><11><DW_TAG_compile_unit> DW_AT_name<init/main.c> DW_AT_producer<GNU C 3.4.3>",
			ok:    true,
			depth: 0,
			id:    "11",
			kind:  "DW_TAG_compile_unit",
			attrs: map[string]string{
				"DW_AT_name":     "init/main.c",
				"DW_AT_producer": "GNU C 3.4.3",
			},
		},
		{
			name:  "header only",
			line:  "<1><58><DW_TAG_subprogram>",
			ok:    true,
			depth: 1,
			id:    "58",
			kind:  "DW_TAG_subprogram",
			attrs: map[string]string{},
		},
		{
			name:  "statement id with plus",
			line:  "<1><10+4><DW_TAG_base_type> DW_AT_byte_size<4>",
			ok:    true,
			depth: 1,
			id:    "10+4",
			kind:  "DW_TAG_base_type",
			attrs: map[string]string{"DW_AT_byte_size": "4"},
		},
		{
			name:  "junk between pairs is skipped",
			line:  "<1><7><DW_TAG_typedef> !! noise DW_AT_name<ulong> ... DW_AT_type<<9>> trailing",
			ok:    true,
			depth: 1,
			id:    "7",
			kind:  "DW_TAG_typedef",
			attrs: map[string]string{
				"DW_AT_name": "ulong",
				"DW_AT_type": "<9",
			},
		},
		{
			name:  "duplicate key keeps the last value",
			line:  "<1><5><DW_TAG_base_type> DW_AT_name<int> DW_AT_name<long>",
			ok:    true,
			depth: 1,
			id:    "5",
			kind:  "DW_TAG_base_type",
			attrs: map[string]string{"DW_AT_name": "long"},
		},
		{
			name:  "empty attribute value",
			line:  "<2><90><DW_TAG_member> DW_AT_name<>",
			ok:    true,
			depth: 2,
			id:    "90",
			kind:  "DW_TAG_member",
			attrs: map[string]string{"DW_AT_name": ""},
		},
		{name: "indented header is noise", line: "  <1><2><DW_TAG_member>", ok: false},
		{name: "section banner is noise", line: "Contents of the .debug_info section:", ok: false},
		{name: "empty line", line: "", ok: false},
		{name: "angle brackets without header shape", line: "<abc><1><DW_TAG_member>", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := decodeLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.depth, rec.depth)
			assert.Equal(t, tt.id, rec.id)
			assert.Equal(t, tt.kind, rec.kind)
			assert.Equal(t, tt.attrs, rec.attrs)
		})
	}
}

func TestTypeRefFromAttr(t *testing.T) {
	ref := typeRefFromAttr("<1442")
	require.Equal(t, vtypes.TypeKindRef, ref.Kind())
	assert.Equal(t, "1442", ref.(vtypes.Ref).ID)

	name := typeRefFromAttr("task_struct")
	require.Equal(t, vtypes.TypeKindName, name.Kind())
	assert.Equal(t, "task_struct", name.(vtypes.TypeName).Name)
}

func TestParseLooseInt(t *testing.T) {
	tests := []struct {
		in  string
		val int64
		ok  bool
	}{
		{"42", 42, true},
		{"-3", -3, true},
		{"  511  ", 511, true},
		{"7 (0x7)", 7, true},
		{"34 (as signed = -30)", 34, true},
		{"(nope)", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			val, ok := parseLooseInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.val, val)
		})
	}
}
