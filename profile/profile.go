// Package profile compiles textual debug output into a queryable database
// of type layouts, global variable addresses, and kernel symbols.
package profile

import (
	"fmt"
	"iter"
	"os"
	"sort"
	"sync"

	"github.com/ralphymoto/volatility/internal/dwarf"
	"github.com/ralphymoto/volatility/sysmap"
	"github.com/ralphymoto/volatility/vtypes"
)

// Profile is a compiled type-layout database.
// It is immutable after construction and safe for concurrent readers.
type Profile struct {
	types   map[string]*vtypes.StructLayout
	globals map[string]vtypes.GlobalVar
	locals  []vtypes.LocalVar
	symbols *sysmap.Map

	// Address-sorted globals (lazy-built)
	byAddr     []vtypes.GlobalVar
	byAddrOnce sync.Once
}

// Parse compiles dwarfdump -di text into a profile with no symbol map.
func Parse(dwarfText []byte) (*Profile, error) {
	res, err := dwarf.Parse(dwarfText)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &Profile{types: res.Types, globals: res.Globals, locals: res.Locals}, nil
}

// ParseComplete compiles a debug text and its companion System.map into one
// profile. Both inputs are required; an empty one fails with
// ErrIncompleteProfile.
func ParseComplete(dwarfText, mapText []byte) (*Profile, error) {
	if len(dwarfText) == 0 || len(mapText) == 0 {
		return nil, ErrIncompleteProfile
	}

	p, err := Parse(dwarfText)
	if err != nil {
		return nil, err
	}
	p.symbols = sysmap.Parse(mapText)
	return p, nil
}

// Open reads and compiles a debug text file.
func Open(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to open file: %w", err)
	}
	return Parse(data)
}

// OpenComplete reads and compiles a debug text file together with its
// companion System.map file.
func OpenComplete(dwarfPath, mapPath string) (*Profile, error) {
	dwarfText, err := os.ReadFile(dwarfPath)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to open file: %w", err)
	}
	mapText, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("profile: failed to open system map: %w", err)
	}
	return ParseComplete(dwarfText, mapText)
}

// Type looks up a struct or union layout by name.
func (p *Profile) Type(name string) (*vtypes.StructLayout, bool) {
	layout, ok := p.types[name]
	return layout, ok
}

// Global looks up a global variable by name.
func (p *Profile) Global(name string) (vtypes.GlobalVar, bool) {
	gv, ok := p.globals[name]
	return gv, ok
}

// GlobalAt finds the global variable at or immediately below the given
// address.
func (p *Profile) GlobalAt(addr uint64) (vtypes.GlobalVar, bool) {
	sorted := p.globalsByAddr()
	if len(sorted) == 0 {
		return vtypes.GlobalVar{}, false
	}

	i := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Address > addr
	})
	if i == 0 {
		return vtypes.GlobalVar{}, false
	}
	return sorted[i-1], true
}

// Types returns an iterator over all layouts in name order.
func (p *Profile) Types() iter.Seq[*vtypes.StructLayout] {
	return func(yield func(*vtypes.StructLayout) bool) {
		for _, name := range sortedKeys(p.types) {
			if !yield(p.types[name]) {
				return
			}
		}
	}
}

// Globals returns an iterator over all global variables in name order.
func (p *Profile) Globals() iter.Seq[vtypes.GlobalVar] {
	return func(yield func(vtypes.GlobalVar) bool) {
		for _, name := range sortedKeys(p.globals) {
			if !yield(p.globals[name]) {
				return
			}
		}
	}
}

// Locals returns the function-scoped variable records in input order.
func (p *Profile) Locals() []vtypes.LocalVar {
	return p.locals
}

// Symbols returns the symbol map, or nil when none was supplied.
func (p *Profile) Symbols() *sysmap.Map {
	return p.symbols
}

// NumTypes returns the number of compiled layouts.
func (p *Profile) NumTypes() int {
	return len(p.types)
}

// NumGlobals returns the number of global variables.
func (p *Profile) NumGlobals() int {
	return len(p.globals)
}

func (p *Profile) globalsByAddr() []vtypes.GlobalVar {
	p.byAddrOnce.Do(func() {
		p.byAddr = make([]vtypes.GlobalVar, 0, len(p.globals))
		for _, gv := range p.globals {
			p.byAddr = append(p.byAddr, gv)
		}
		sort.Slice(p.byAddr, func(i, j int) bool {
			if p.byAddr[i].Address != p.byAddr[j].Address {
				return p.byAddr[i].Address < p.byAddr[j].Address
			}
			return p.byAddr[i].Name < p.byAddr[j].Name
		})
	})
	return p.byAddr
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
