package sysmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMap = `c0100000 T _text
c0100220 t rest_init
c0550780 D init_task
c0550780 D init_task_alias
not a symbol line
c01002
zzzzzzzz T broken_address
c06a4000 B __bss_start
`

func TestParse(t *testing.T) {
	m := Parse([]byte(sampleMap))

	t.Run("well-formed lines are kept", func(t *testing.T) {
		assert.Equal(t, 5, m.Len())

		addr, ok := m.Address("init_task")
		require.True(t, ok)
		assert.Equal(t, uint64(0xc0550780), addr)
	})

	t.Run("malformed lines are skipped", func(t *testing.T) {
		_, ok := m.Address("broken_address")
		assert.False(t, ok)
	})

	t.Run("unknown names miss", func(t *testing.T) {
		_, ok := m.Address("swapper_pg_dir")
		assert.False(t, ok)
	})
}

func TestParse64BitAddresses(t *testing.T) {
	m := Parse([]byte("ffffffff81000000 T swapper_pg_dir\nffffffff810001c8\n"))

	require.Equal(t, 1, m.Len())
	addr, ok := m.Address("swapper_pg_dir")
	require.True(t, ok)
	assert.Equal(t, uint64(0xffffffff81000000), addr)
}

func TestParseDuplicateNames(t *testing.T) {
	m := Parse([]byte("c0100000 T twice\nc0200000 T twice\n"))

	require.Equal(t, 1, m.Len())
	addr, ok := m.Address("twice")
	require.True(t, ok)
	assert.Equal(t, uint64(0xc0200000), addr, "the later entry should win")
}

func TestParseCarriageReturns(t *testing.T) {
	m := Parse([]byte("c0100000 T _text\r\nc0100220 t rest_init\r\n"))

	assert.Equal(t, 2, m.Len())
	addr, ok := m.Address("rest_init")
	require.True(t, ok)
	assert.Equal(t, uint64(0xc0100220), addr)
}

func TestAll(t *testing.T) {
	m := Parse([]byte(sampleMap))

	var names []string
	for sym := range m.All() {
		names = append(names, sym.Name)
	}

	assert.Equal(t,
		[]string{"_text", "rest_init", "init_task", "init_task_alias", "__bss_start"},
		names,
		"symbols should come out in address order, ties by name")
}

func TestResolve(t *testing.T) {
	m := Parse([]byte(sampleMap))

	t.Run("exact address", func(t *testing.T) {
		sym, ok := m.Resolve(0xc0100220)
		require.True(t, ok)
		assert.Equal(t, "rest_init", sym.Name)
	})

	t.Run("interior address maps to the symbol below", func(t *testing.T) {
		sym, ok := m.Resolve(0xc0100224)
		require.True(t, ok)
		assert.Equal(t, "rest_init", sym.Name)
		assert.Equal(t, uint64(0xc0100220), sym.Address)
	})

	t.Run("below the first symbol", func(t *testing.T) {
		_, ok := m.Resolve(0xb0000000)
		assert.False(t, ok)
	})

	t.Run("above the last symbol", func(t *testing.T) {
		sym, ok := m.Resolve(0xffffffff)
		require.True(t, ok)
		assert.Equal(t, "__bss_start", sym.Name)
	})
}

func TestEmptyMap(t *testing.T) {
	m := Parse(nil)

	assert.Equal(t, 0, m.Len())
	_, ok := m.Address("anything")
	assert.False(t, ok)
	_, ok = m.Resolve(0xc0100000)
	assert.False(t, ok)
}
