package dwarf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseTypeName(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  string
		err   error
	}{
		{
			name:  "named primitive",
			attrs: map[string]string{"DW_AT_name": "int"},
			want:  "int",
		},
		{
			name:  "named primitive is normalized",
			attrs: map[string]string{"DW_AT_name": "long long unsigned int"},
			want:  "unsigned long long",
		},
		{
			name:  "long double narrows to double",
			attrs: map[string]string{"DW_AT_name": "long double"},
			want:  "double",
		},
		{
			name:  "unknown name",
			attrs: map[string]string{"DW_AT_name": "__int128"},
			err:   ErrUnknownBaseType,
		},
		{
			name:  "unnamed signed by size",
			attrs: map[string]string{"DW_AT_byte_size": "2", "DW_AT_encoding": "DW_ATE_signed"},
			want:  "short",
		},
		{
			name:  "unnamed unsigned by size",
			attrs: map[string]string{"DW_AT_byte_size": "4", "DW_AT_encoding": "DW_ATE_unsigned"},
			want:  "unsigned long",
		},
		{
			name:  "unnamed eight byte",
			attrs: map[string]string{"DW_AT_byte_size": "8", "DW_AT_encoding": "DW_ATE_signed"},
			want:  "long long",
		},
		{
			name:  "unsupported size",
			attrs: map[string]string{"DW_AT_byte_size": "16", "DW_AT_encoding": "DW_ATE_signed"},
			err:   ErrUnknownBaseType,
		},
		{
			name:  "unnamed without size",
			attrs: map[string]string{"DW_AT_encoding": "DW_ATE_signed"},
			err:   ErrMissingAttribute,
		},
		{
			name:  "unnamed without encoding",
			attrs: map[string]string{"DW_AT_byte_size": "4"},
			err:   ErrMissingAttribute,
		},
		{
			name:  "unparseable size",
			attrs: map[string]string{"DW_AT_byte_size": "four", "DW_AT_encoding": "DW_ATE_signed"},
			err:   ErrBadAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := baseTypeName(tt.attrs)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
