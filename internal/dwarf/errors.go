package dwarf

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural failures. Malformed lines and unknown
// record kinds are skipped, never reported; these fire only when the input
// breaks the format contract itself.
var (
	// ErrUnresolvedReference indicates a type reference to a statement id
	// that was never defined in its compilation unit.
	ErrUnresolvedReference = errors.New("dwarf: unresolved type reference")

	// ErrCircularReference indicates a reference chain that loops.
	ErrCircularReference = errors.New("dwarf: circular type reference")

	// ErrMissingAttribute indicates a record lacking an attribute its kind
	// requires.
	ErrMissingAttribute = errors.New("dwarf: missing required attribute")

	// ErrBadAttribute indicates an attribute value that failed to parse.
	ErrBadAttribute = errors.New("dwarf: malformed attribute value")

	// ErrUnknownBaseType indicates a primitive type outside the fixed
	// translation tables.
	ErrUnknownBaseType = errors.New("dwarf: unknown base type")

	// ErrUnknownScope indicates a member or enumerator whose enclosing
	// definition has no layout, e.g. under a bare forward declaration.
	ErrUnknownScope = errors.New("dwarf: record outside a registered scope")
)

// ParseError reports a record that violated the format contract, carrying
// the 1-based input line it came from and the record kind.
type ParseError struct {
	Line int
	Tag  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dwarf: parse error at line %d (%s): %v", e.Line, e.Tag, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
