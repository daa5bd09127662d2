// Package dwarf compiles dwarfdump -di text output into resolved type
// layout tables: struct and union member offsets, inlined enumerations,
// bitfields, array shapes, and global variable addresses.
package dwarf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ralphymoto/volatility/vtypes"
)

// Record kinds and attribute keys as dwarfdump spells them.
const (
	tagCompileUnit     = "DW_TAG_compile_unit"
	tagStructureType   = "DW_TAG_structure_type"
	tagUnionType       = "DW_TAG_union_type"
	tagArrayType       = "DW_TAG_array_type"
	tagEnumerationType = "DW_TAG_enumeration_type"
	tagPointerType     = "DW_TAG_pointer_type"
	tagBaseType        = "DW_TAG_base_type"
	tagVolatileType    = "DW_TAG_volatile_type"
	tagConstType       = "DW_TAG_const_type"
	tagTypedef         = "DW_TAG_typedef"
	tagSubroutineType  = "DW_TAG_subroutine_type"
	tagSubprogram      = "DW_TAG_subprogram"
	tagVariable        = "DW_TAG_variable"
	tagFormalParameter = "DW_TAG_formal_parameter"
	tagMember          = "DW_TAG_member"
	tagEnumerator      = "DW_TAG_enumerator"
	tagSubrangeType    = "DW_TAG_subrange_type"
)

const (
	attrName               = "DW_AT_name"
	attrByteSize           = "DW_AT_byte_size"
	attrType               = "DW_AT_type"
	attrEncoding           = "DW_AT_encoding"
	attrDataMemberLocation = "DW_AT_data_member_location"
	attrBitSize            = "DW_AT_bit_size"
	attrBitOffset          = "DW_AT_bit_offset"
	attrConstValue         = "DW_AT_const_value"
	attrUpperBound         = "DW_AT_upper_bound"
	attrLocation           = "DW_AT_location"
	attrDeclLine           = "DW_AT_decl_line"
	attrDeclFile           = "DW_AT_decl_file"
)

// Result holds the cumulative tables produced by a parse. All type
// references are fully resolved; Result is never mutated afterwards.
type Result struct {
	Types   map[string]*vtypes.StructLayout
	Globals map[string]vtypes.GlobalVar
	Locals  []vtypes.LocalVar
}

// Parser compiles debug-record lines into layout tables. Feed every line in
// order, then call Finish. A Parser holds no process-wide state, so
// independent parses may run concurrently.
type Parser struct {
	scope *scopeStack
	unit  *unitState

	// Cumulative across compilation units. Enumerations are carried rather
	// than reset so inlining sees definitions from every unit.
	types   map[string]*vtypes.StructLayout
	globals map[string]vtypes.GlobalVar
	locals  []vtypes.LocalVar
	enums   map[string]*vtypes.EnumLayout

	line int
}

// unitState is working state scoped to one compilation unit. Statement ids
// repeat across units, so the whole value is replaced at each unit boundary.
type unitState struct {
	index   map[string]vtypes.TypeRef
	types   map[string]*vtypes.StructLayout
	globals map[string]vtypes.GlobalVar
	locals  []vtypes.LocalVar
}

func newUnitState() *unitState {
	return &unitState{
		index:   make(map[string]vtypes.TypeRef),
		types:   make(map[string]*vtypes.StructLayout),
		globals: make(map[string]vtypes.GlobalVar),
	}
}

// NewParser returns a parser ready to accept the first line.
func NewParser() *Parser {
	return &Parser{
		scope:   newScopeStack(),
		unit:    newUnitState(),
		types:   make(map[string]*vtypes.StructLayout),
		globals: make(map[string]vtypes.GlobalVar),
		enums:   make(map[string]*vtypes.EnumLayout),
	}
}

// Parse compiles a complete dwarfdump text.
func Parse(data []byte) (*Result, error) {
	p := NewParser()
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if err := p.FeedLine(string(line)); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}

// FeedLine accepts the next input line. Lines that are not debug records
// are ignored; records that break the format contract fail the parse with a
// ParseError.
func (p *Parser) FeedLine(line string) error {
	p.line++
	rec, ok := decodeLine(line)
	if !ok {
		return nil
	}

	// Function-scoped variables and parameters bypass the scope-aware
	// statement path; they accumulate into a flat diagnostic list.
	if rec.kind == tagFormalParameter || (rec.kind == tagVariable && rec.depth != 1) {
		p.collectLocal(rec.attrs)
		return nil
	}

	if err := p.processStatement(rec); err != nil {
		return &ParseError{Line: p.line, Tag: rec.kind, Err: err}
	}
	return nil
}

// Finish finalizes the last compilation unit and returns the accumulated
// tables.
func (p *Parser) Finish() (*Result, error) {
	if err := p.finalizeUnit(); err != nil {
		return nil, err
	}
	return &Result{Types: p.types, Globals: p.globals, Locals: p.locals}, nil
}

func (p *Parser) processStatement(rec rawRecord) error {
	p.scope.enter(rec.depth, rec.kind, rec.id)
	parent, hasParent := p.scope.parent()

	switch rec.kind {
	case tagCompileUnit:
		if err := p.finalizeUnit(); err != nil {
			return err
		}
		p.unit = newUnitState()

	case tagStructureType, tagUnionType:
		name := p.registerName(rec)
		sizeStr, ok := rec.attrs[attrByteSize]
		if !ok {
			// Forward declaration: the name is known but no storage has
			// been emitted. A later full definition under the same name
			// starts from scratch; it is not merged into this record's id.
			return nil
		}
		size, err := parseSize(sizeStr)
		if err != nil {
			return err
		}
		p.unit.types[name] = &vtypes.StructLayout{Name: name, ByteSize: size}

	case tagEnumerationType:
		name := p.registerName(rec)
		sizeStr, ok := rec.attrs[attrByteSize]
		if !ok {
			return nil
		}
		size, err := parseSize(sizeStr)
		if err != nil {
			return err
		}
		p.enums[name] = &vtypes.EnumLayout{Name: name, ByteSize: size, Values: make(map[string]int64)}

	case tagArrayType:
		// The element type is bound now; the subrange child record that
		// always follows wraps it with the dimension.
		ref, ok := rec.attrs[attrType]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAttribute, attrType)
		}
		p.unit.index[rec.id] = typeRefFromAttr(ref)

	case tagPointerType:
		target := vtypes.TypeRef(vtypes.TypeName{Name: "void"})
		if ref, ok := rec.attrs[attrType]; ok {
			target = typeRefFromAttr(ref)
		}
		p.unit.index[rec.id] = vtypes.Pointer{Target: target}

	case tagBaseType:
		name, err := baseTypeName(rec.attrs)
		if err != nil {
			return err
		}
		p.unit.index[rec.id] = vtypes.TypeName{Name: name}

	case tagVolatileType, tagConstType, tagTypedef:
		// Transparent aliases.
		if ref, ok := rec.attrs[attrType]; ok {
			p.unit.index[rec.id] = typeRefFromAttr(ref)
		} else {
			p.unit.index[rec.id] = vtypes.TypeName{Name: "void"}
		}

	case tagSubroutineType:
		// Function signatures are never dereferenced by consumers.
		p.unit.index[rec.id] = vtypes.TypeName{Name: "void"}

	case tagVariable:
		return p.processGlobal(rec.attrs)

	case tagSubprogram:
		// Only relevant as the enclosing scope of formal parameters.

	case tagMember:
		if !hasParent {
			return nil
		}
		switch parent.kind {
		case tagStructureType:
			return p.processStructMember(rec, parent.name)
		case tagUnionType:
			return p.processUnionMember(rec, parent.name)
		}

	case tagEnumerator:
		if hasParent && parent.kind == tagEnumerationType {
			return p.processEnumerator(rec, parent.name)
		}

	case tagSubrangeType:
		if hasParent && parent.kind == tagArrayType {
			return p.processSubrange(rec, parent.name)
		}
	}

	return nil
}

// registerName computes the record's layout name, synthesizing one for
// anonymous definitions, and binds both the scope frame and the statement id
// to it.
func (p *Parser) registerName(rec rawRecord) string {
	name, ok := rec.attrs[attrName]
	if !ok {
		name = "__unnamed_" + rec.id
	}
	p.scope.setTopName(name)
	p.unit.index[rec.id] = vtypes.TypeName{Name: name}
	return name
}

// processGlobal records a variable at the top level of a compilation unit.
// Variables without a usable address in their location attribute are
// dropped; a usable address with no name or type is a contract violation.
func (p *Parser) processGlobal(attrs map[string]string) error {
	loc, ok := attrs[attrLocation]
	if !ok {
		return nil
	}
	fields := strings.Fields(loc)
	if len(fields) < 2 {
		return nil
	}
	addr, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return nil
	}

	name, ok := attrs[attrName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrName)
	}
	ref, ok := attrs[attrType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrType)
	}

	p.unit.globals[name] = vtypes.GlobalVar{Name: name, Address: addr, Type: typeRefFromAttr(ref)}
	return nil
}

func (p *Parser) processStructMember(rec rawRecord, parentName string) error {
	layout, ok := p.unit.types[parentName]
	if !ok {
		return fmt.Errorf("%w: member of %q", ErrUnknownScope, parentName)
	}

	name, ok := rec.attrs[attrName]
	if !ok {
		name = "__unnamed_" + rec.id
	}

	locStr, ok := rec.attrs[attrDataMemberLocation]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrDataMemberLocation)
	}
	fields := strings.Fields(locStr)
	if len(fields) < 2 {
		return fmt.Errorf("%w: %s %q", ErrBadAttribute, attrDataMemberLocation, locStr)
	}
	off, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s %q", ErrBadAttribute, attrDataMemberLocation, locStr)
	}

	var typ vtypes.TypeRef
	bitSizeStr, hasBitSize := rec.attrs[attrBitSize]
	bitOffsetStr, hasBitOffset := rec.attrs[attrBitOffset]
	switch {
	case hasBitSize && hasBitOffset:
		typ, err = bitfieldType(rec.attrs, bitSizeStr, bitOffsetStr)
		if err != nil {
			return err
		}
	default:
		ref, ok := rec.attrs[attrType]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAttribute, attrType)
		}
		typ = typeRefFromAttr(ref)
	}

	layout.PutMember(vtypes.Member{Name: name, Offset: off, Type: typ})
	return nil
}

func (p *Parser) processUnionMember(rec rawRecord, parentName string) error {
	layout, ok := p.unit.types[parentName]
	if !ok {
		return fmt.Errorf("%w: member of %q", ErrUnknownScope, parentName)
	}

	name, ok := rec.attrs[attrName]
	if !ok {
		name = "__unnamed_" + rec.id
	}
	ref, ok := rec.attrs[attrType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrType)
	}

	layout.PutMember(vtypes.Member{Name: name, Offset: 0, Type: typeRefFromAttr(ref)})
	return nil
}

func (p *Parser) processEnumerator(rec rawRecord, parentName string) error {
	enum, ok := p.enums[parentName]
	if !ok {
		return fmt.Errorf("%w: enumerator of %q", ErrUnknownScope, parentName)
	}

	name, ok := rec.attrs[attrName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrName)
	}
	valStr, ok := rec.attrs[attrConstValue]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, attrConstValue)
	}

	// Unparseable values degrade to zero rather than failing the parse.
	val, _ := parseLooseInt(valStr)
	enum.Values[name] = val
	return nil
}

func (p *Parser) processSubrange(rec rawRecord, arrayID string) error {
	elem, ok := p.unit.index[arrayID]
	if !ok {
		return fmt.Errorf("%w: subrange of <%s>", ErrUnknownScope, arrayID)
	}

	var count int64
	if ub, ok := rec.attrs[attrUpperBound]; ok {
		if v, parsed := parseLooseInt(ub); parsed {
			count = v + 1
		}
	}

	p.unit.index[arrayID] = vtypes.Array{Count: count, Elem: elem}
	return nil
}

// collectLocal keeps a function-scoped variable record when it carries
// everything the diagnostic list needs; incomplete records are skipped.
func (p *Parser) collectLocal(attrs map[string]string) {
	name, okName := attrs[attrName]
	lineStr, okLine := attrs[attrDeclLine]
	fileStr, okFile := attrs[attrDeclFile]
	ref, okType := attrs[attrType]
	if !okName || !okLine || !okFile || !okType {
		return
	}

	declLine, err := strconv.ParseInt(lineStr, 10, 64)
	if err != nil {
		return
	}
	fields := strings.Fields(fileStr)
	if len(fields) < 2 {
		return
	}

	p.unit.locals = append(p.unit.locals, vtypes.LocalVar{
		Name:     name,
		DeclLine: declLine,
		DeclFile: fields[1],
		Type:     typeRefFromAttr(ref),
	})
}

func parseSize(s string) (int64, error) {
	size, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrBadAttribute, attrByteSize, s)
	}
	return size, nil
}

// bitfieldType converts a bit_offset/bit_size pair into MSB-relative start
// and end bits. dwarfdump numbers bits from the most significant end of the
// storage unit, so both bounds are mirrored across the full storage width,
// keeping start below end.
func bitfieldType(attrs map[string]string, bitSizeStr, bitOffsetStr string) (vtypes.TypeRef, error) {
	sizeStr, ok := attrs[attrByteSize]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, attrByteSize)
	}
	byteSize, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrBadAttribute, attrByteSize, sizeStr)
	}
	bitOffset, err := strconv.ParseInt(bitOffsetStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrBadAttribute, attrBitOffset, bitOffsetStr)
	}
	bitSize, err := strconv.ParseInt(bitSizeStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrBadAttribute, attrBitSize, bitSizeStr)
	}

	full := byteSize * 8
	start := full - bitOffset - bitSize
	end := full - bitOffset
	if start >= end {
		return nil, fmt.Errorf("%w: bit field of %d bits at offset %d", ErrBadAttribute, bitSize, bitOffset)
	}
	return vtypes.Bitfield{StartBit: start, EndBit: end}, nil
}
