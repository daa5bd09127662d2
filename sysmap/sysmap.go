// Package sysmap parses kernel symbol tables in the System.map format.
package sysmap

import (
	"bytes"
	"iter"
	"sort"
	"strconv"
	"sync"
)

// Symbol is one symbol table entry.
type Symbol struct {
	Name    string
	Address uint64
}

// Map is a parsed symbol table with name and address lookup.
type Map struct {
	byName map[string]Symbol

	// Address-sorted view (lazy-built)
	sorted     []Symbol
	sortedOnce sync.Once
}

// Parse reads System.map text. Every line carries a hexadecimal address, a
// symbol type letter, and the symbol name; lines that do not are skipped.
// When a name appears on more than one line the last occurrence wins.
func Parse(data []byte) *Map {
	m := &Map{byName: make(map[string]Symbol)}
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		fields := bytes.Fields(line)
		if len(fields) < 3 {
			continue
		}
		addr, err := strconv.ParseUint(string(fields[0]), 16, 64)
		if err != nil {
			continue
		}
		name := string(fields[2])
		m.byName[name] = Symbol{Name: name, Address: addr}
	}
	return m
}

// Address returns the address recorded for a symbol name.
func (m *Map) Address(name string) (uint64, bool) {
	sym, ok := m.byName[name]
	return sym.Address, ok
}

// Len returns the number of distinct symbol names.
func (m *Map) Len() int {
	return len(m.byName)
}

// All returns an iterator over all symbols in ascending address order.
// Symbols sharing an address are ordered by name.
func (m *Map) All() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, sym := range m.bySorted() {
			if !yield(sym) {
				return
			}
		}
	}
}

// Resolve finds the symbol at or immediately below the given address.
func (m *Map) Resolve(addr uint64) (Symbol, bool) {
	sorted := m.bySorted()
	if len(sorted) == 0 {
		return Symbol{}, false
	}

	i := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Address > addr
	})
	if i == 0 {
		return Symbol{}, false
	}
	return sorted[i-1], true
}

func (m *Map) bySorted() []Symbol {
	m.sortedOnce.Do(func() {
		m.sorted = make([]Symbol, 0, len(m.byName))
		for _, sym := range m.byName {
			m.sorted = append(m.sorted, sym)
		}
		sort.Slice(m.sorted, func(i, j int) bool {
			if m.sorted[i].Address != m.sorted[j].Address {
				return m.sorted[i].Address < m.sorted[j].Address
			}
			return m.sorted[i].Name < m.sorted[j].Name
		})
	})
	return m.sorted
}
