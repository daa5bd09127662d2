package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDwarf = `<0><11><DW_TAG_compile_unit> DW_AT_name<init/main.c>
<1><100><DW_TAG_base_type> DW_AT_name<int> DW_AT_byte_size<4> DW_AT_encoding<DW_ATE_signed>
<1><200><DW_TAG_structure_type> DW_AT_name<task_struct> DW_AT_byte_size<16>
<2><210><DW_TAG_member> DW_AT_name<pid> DW_AT_type<<100>> DW_AT_data_member_location<DW_OP_plus_uconst 0>
<2><220><DW_TAG_member> DW_AT_name<tgid> DW_AT_type<<100>> DW_AT_data_member_location<DW_OP_plus_uconst 4>
<1><300><DW_TAG_structure_type> DW_AT_name<mm_struct> DW_AT_byte_size<8>
<2><310><DW_TAG_member> DW_AT_name<mmap> DW_AT_type<<100>> DW_AT_data_member_location<DW_OP_plus_uconst 0>
<1><700><DW_TAG_variable> DW_AT_name<init_task> DW_AT_type<<100>> DW_AT_location<DW_OP_addr 0xc0550780>
<1><710><DW_TAG_variable> DW_AT_name<jiffies> DW_AT_type<<100>> DW_AT_location<DW_OP_addr 0xc0419204>
<1><800><DW_TAG_subprogram> DW_AT_name<start_kernel>
<2><810><DW_TAG_formal_parameter> DW_AT_name<cmdline> DW_AT_decl_line<45> DW_AT_decl_file<1 init/main.c> DW_AT_type<<100>>
`

const sampleSystemMap = `c0419204 D jiffies
c0550780 D init_task
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleDwarf))
	require.NoError(t, err)

	t.Run("type lookup", func(t *testing.T) {
		layout, ok := p.Type("task_struct")
		require.True(t, ok)
		assert.Equal(t, int64(16), layout.ByteSize)

		tgid, ok := layout.Member("tgid")
		require.True(t, ok)
		assert.Equal(t, int64(4), tgid.Offset)

		_, ok = p.Type("vm_area_struct")
		assert.False(t, ok)
	})

	t.Run("global lookup", func(t *testing.T) {
		gv, ok := p.Global("init_task")
		require.True(t, ok)
		assert.Equal(t, uint64(0xc0550780), gv.Address)
		assert.Equal(t, "['int']", gv.Type.String())
	})

	t.Run("locals are carried", func(t *testing.T) {
		require.Len(t, p.Locals(), 1)
		assert.Equal(t, "cmdline", p.Locals()[0].Name)
	})

	t.Run("counts", func(t *testing.T) {
		assert.Equal(t, 2, p.NumTypes())
		assert.Equal(t, 2, p.NumGlobals())
	})

	t.Run("no symbol map without one", func(t *testing.T) {
		assert.Nil(t, p.Symbols())
	})
}

func TestParseComplete(t *testing.T) {
	t.Run("both inputs combine", func(t *testing.T) {
		p, err := ParseComplete([]byte(sampleDwarf), []byte(sampleSystemMap))
		require.NoError(t, err)

		require.NotNil(t, p.Symbols())
		addr, ok := p.Symbols().Address("jiffies")
		require.True(t, ok)
		assert.Equal(t, uint64(0xc0419204), addr)
	})

	t.Run("missing debug text", func(t *testing.T) {
		_, err := ParseComplete(nil, []byte(sampleSystemMap))
		assert.ErrorIs(t, err, ErrIncompleteProfile)
	})

	t.Run("missing symbol map", func(t *testing.T) {
		_, err := ParseComplete([]byte(sampleDwarf), nil)
		assert.ErrorIs(t, err, ErrIncompleteProfile)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	dwarfPath := filepath.Join(dir, "module.dwarf")
	mapPath := filepath.Join(dir, "System.map")
	require.NoError(t, os.WriteFile(dwarfPath, []byte(sampleDwarf), 0o644))
	require.NoError(t, os.WriteFile(mapPath, []byte(sampleSystemMap), 0o644))

	t.Run("debug text alone", func(t *testing.T) {
		p, err := Open(dwarfPath)
		require.NoError(t, err)
		assert.Equal(t, 2, p.NumTypes())
	})

	t.Run("with a symbol map", func(t *testing.T) {
		p, err := OpenComplete(dwarfPath, mapPath)
		require.NoError(t, err)
		assert.NotNil(t, p.Symbols())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "nope.dwarf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to open file")
	})

	t.Run("missing symbol map file", func(t *testing.T) {
		_, err := OpenComplete(dwarfPath, filepath.Join(dir, "nope.map"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to open system map",
			"the message says which of the two files was unreadable")
	})
}

func TestGlobalAt(t *testing.T) {
	p, err := Parse([]byte(sampleDwarf))
	require.NoError(t, err)

	t.Run("exact address", func(t *testing.T) {
		gv, ok := p.GlobalAt(0xc0550780)
		require.True(t, ok)
		assert.Equal(t, "init_task", gv.Name)
	})

	t.Run("interior address maps to the variable below", func(t *testing.T) {
		gv, ok := p.GlobalAt(0xc0419210)
		require.True(t, ok)
		assert.Equal(t, "jiffies", gv.Name)
	})

	t.Run("below the first variable", func(t *testing.T) {
		_, ok := p.GlobalAt(0xc0000000)
		assert.False(t, ok)
	})
}

func TestIterationOrder(t *testing.T) {
	p, err := Parse([]byte(sampleDwarf))
	require.NoError(t, err)

	var typeNames []string
	for layout := range p.Types() {
		typeNames = append(typeNames, layout.Name)
	}
	assert.Equal(t, []string{"mm_struct", "task_struct"}, typeNames)

	var globalNames []string
	for gv := range p.Globals() {
		globalNames = append(globalNames, gv.Name)
	}
	assert.Equal(t, []string{"init_task", "jiffies"}, globalNames)
}

func TestParseFailureClassification(t *testing.T) {
	_, err := Parse([]byte(`<0><11><DW_TAG_compile_unit> DW_AT_name<a.c>
<1><100><DW_TAG_base_type> DW_AT_name<int> DW_AT_byte_size<4> DW_AT_encoding<DW_ATE_signed>
<1><200><DW_TAG_structure_type> DW_AT_name<broken> DW_AT_byte_size<4>
<2><210><DW_TAG_member> DW_AT_name<m> DW_AT_type<<100>>`))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingAttribute)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, "DW_TAG_member", pe.Tag)
}
