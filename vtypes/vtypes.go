// Package vtypes defines the type-layout data model produced by parsing
// dwarfdump output: struct and union member layouts, enumerations, bitfields,
// array shapes, pointer chains, and global variable addresses.
package vtypes

import (
	"fmt"
	"sort"
	"strings"
)

// TypeKind identifies the category of a type descriptor node.
type TypeKind uint16

const (
	TypeKindUnknown TypeKind = iota
	TypeKindRef
	TypeKindName
	TypeKindPointer
	TypeKindArray
	TypeKindBitfield
	TypeKindEnumeration
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindRef:
		return "ref"
	case TypeKindName:
		return "name"
	case TypeKindPointer:
		return "pointer"
	case TypeKindArray:
		return "array"
	case TypeKindBitfield:
		return "bitfield"
	case TypeKindEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// TypeRef is one node in a type descriptor graph. A node is either a
// still-unresolved reference to a debug-info statement id (Ref) or a
// resolved descriptor, possibly wrapping further nodes (Pointer, Array).
// Finished layout tables contain no Ref nodes.
type TypeRef interface {
	// Kind returns the node kind.
	Kind() TypeKind

	// String renders the node in the textual vtype list form,
	// e.g. ['pointer', ['task_struct']].
	String() string
}

// Ref is an unresolved reference to another debug record by statement id.
// Refs are only meaningful within one compilation unit.
type Ref struct {
	ID string
}

func (r Ref) Kind() TypeKind { return TypeKindRef }
func (r Ref) String() string { return "'<" + r.ID + "'" }

// TypeName is a resolved named type: a primitive ("int", "unsigned long"),
// a struct/union layout name, or "void".
type TypeName struct {
	Name string
}

func (t TypeName) Kind() TypeKind { return TypeKindName }
func (t TypeName) String() string { return "['" + t.Name + "']" }

// Pointer wraps the type it points to.
type Pointer struct {
	Target TypeRef
}

func (p Pointer) Kind() TypeKind { return TypeKindPointer }
func (p Pointer) String() string {
	return fmt.Sprintf("['pointer', %s]", p.Target)
}

// Array is a fixed-size array of Count elements. A Count of zero means the
// dimension was absent or unparseable in the debug info.
type Array struct {
	Count int64
	Elem  TypeRef
}

func (a Array) Kind() TypeKind { return TypeKindArray }
func (a Array) String() string {
	return fmt.Sprintf("['array', %d, %s]", a.Count, a.Elem)
}

// Bitfield describes a sub-byte member. Bits are numbered from the most
// significant bit of the underlying storage, so StartBit < EndBit always.
type Bitfield struct {
	StartBit int64
	EndBit   int64
}

func (b Bitfield) Kind() TypeKind { return TypeKindBitfield }
func (b Bitfield) String() string {
	return fmt.Sprintf("['BitField', {'start_bit': %d, 'end_bit': %d}]", b.StartBit, b.EndBit)
}

// Enumeration is a self-contained inlined enumeration: the name of its
// underlying storage type plus the value-to-name table.
type Enumeration struct {
	Target  string
	Choices map[int64]string
}

func (e Enumeration) Kind() TypeKind { return TypeKindEnumeration }
func (e Enumeration) String() string {
	vals := make([]int64, 0, len(e.Choices))
	for v := range e.Choices {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	var sb strings.Builder
	sb.WriteString("['Enumeration', {'target': '")
	sb.WriteString(e.Target)
	sb.WriteString("', 'choices': {")
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: '%s'", v, e.Choices[v])
	}
	sb.WriteString("}}]")
	return sb.String()
}

// DeepestLeaf unwraps pointer and array shells around a node and returns the
// name of the innermost named type, if there is one. Bitfields and inlined
// enumerations carry no underlying name.
func DeepestLeaf(t TypeRef) (string, bool) {
	switch v := t.(type) {
	case TypeName:
		return v.Name, true
	case Pointer:
		return DeepestLeaf(v.Target)
	case Array:
		return DeepestLeaf(v.Elem)
	default:
		return "", false
	}
}

// ReplaceLeaf returns t with every named leaf equal to name substituted by
// repl, preserving any pointer or array wrapping around the match. Nodes
// other than the match are returned unchanged.
func ReplaceLeaf(t TypeRef, name string, repl TypeRef) TypeRef {
	switch v := t.(type) {
	case TypeName:
		if v.Name == name {
			return repl
		}
		return v
	case Pointer:
		return Pointer{Target: ReplaceLeaf(v.Target, name, repl)}
	case Array:
		return Array{Count: v.Count, Elem: ReplaceLeaf(v.Elem, name, repl)}
	default:
		return t
	}
}
