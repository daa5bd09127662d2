package dwarf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ralphymoto/volatility/vtypes"
)

// finalizeUnit resolves every reference the finished unit produced and folds
// its tables into the cumulative ones. Definitions from later units replace
// earlier ones of the same name. After the merge the cumulative tables are
// swept for unreachable anonymous layouts and enumeration leaves are
// replaced with their value sets.
func (p *Parser) finalizeUnit() error {
	for name, layout := range p.unit.types {
		for i, m := range layout.Members {
			resolved, err := p.resolve(m.Type)
			if err != nil {
				return fmt.Errorf("dwarf: type %s member %s: %w", name, m.Name, err)
			}
			layout.Members[i].Type = resolved
		}
		p.types[name] = layout
	}

	for name, gv := range p.unit.globals {
		resolved, err := p.resolve(gv.Type)
		if err != nil {
			return fmt.Errorf("dwarf: variable %s: %w", name, err)
		}
		gv.Type = resolved
		p.globals[name] = gv
	}

	for _, lv := range p.unit.locals {
		resolved, err := p.resolve(lv.Type)
		if err != nil {
			return fmt.Errorf("dwarf: local %s: %w", lv.Name, err)
		}
		lv.Type = resolved
		p.locals = append(p.locals, lv)
	}

	p.eliminateDeadLayouts()
	return p.inlineEnums()
}

// eliminateDeadLayouts removes synthesized anonymous layouts nothing points
// at. Removing one layout can orphan another, so the sweep repeats until it
// removes nothing.
func (p *Parser) eliminateDeadLayouts() {
	for {
		reachable := make(map[string]struct{})
		for _, layout := range p.types {
			for _, m := range layout.Members {
				if leaf, ok := vtypes.DeepestLeaf(m.Type); ok {
					reachable[leaf] = struct{}{}
				}
			}
		}
		for _, gv := range p.globals {
			if leaf, ok := vtypes.DeepestLeaf(gv.Type); ok {
				reachable[leaf] = struct{}{}
			}
		}

		removed := false
		for name := range p.types {
			if !strings.HasPrefix(name, "__unnamed_") {
				continue
			}
			if _, ok := reachable[name]; ok {
				continue
			}
			delete(p.types, name)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// inlineEnums replaces member type leaves naming a known enumeration with
// the enumeration's storage type and value set, keeping any pointer or
// array shape around the leaf.
func (p *Parser) inlineEnums() error {
	for _, layout := range p.types {
		for i, m := range layout.Members {
			leaf, ok := vtypes.DeepestLeaf(m.Type)
			if !ok {
				continue
			}
			enum, ok := p.enums[leaf]
			if !ok {
				continue
			}

			storage, ok := sizeToType[enum.ByteSize]
			if !ok {
				return fmt.Errorf("dwarf: enumeration %s has %d-byte storage: %w", leaf, enum.ByteSize, ErrUnknownBaseType)
			}

			// When two names share a value the lexicographically last one
			// wins, keeping the inversion stable across parses.
			names := make([]string, 0, len(enum.Values))
			for name := range enum.Values {
				names = append(names, name)
			}
			sort.Strings(names)
			choices := make(map[int64]string, len(names))
			for _, name := range names {
				choices[enum.Values[name]] = name
			}

			layout.Members[i].Type = vtypes.ReplaceLeaf(m.Type, leaf, vtypes.Enumeration{
				Target:  storage,
				Choices: choices,
			})
		}
	}
	return nil
}
