package profile

import (
	"errors"

	"github.com/ralphymoto/volatility/internal/dwarf"
)

var (
	// ErrIncompleteProfile is returned when an input a complete profile
	// needs is missing or empty.
	ErrIncompleteProfile = errors.New("profile: incomplete profile input")

	// ErrTypeNotFound is returned when a type lookup fails.
	ErrTypeNotFound = errors.New("profile: type not found")

	// ErrSymbolNotFound is returned when a symbol lookup fails.
	ErrSymbolNotFound = errors.New("profile: symbol not found")
)

// Compiler sentinels, re-exported so callers can classify parse failures
// with errors.Is without reaching into an internal package.
var (
	ErrUnresolvedReference = dwarf.ErrUnresolvedReference
	ErrCircularReference   = dwarf.ErrCircularReference
	ErrMissingAttribute    = dwarf.ErrMissingAttribute
	ErrBadAttribute        = dwarf.ErrBadAttribute
	ErrUnknownBaseType     = dwarf.ErrUnknownBaseType
	ErrUnknownScope        = dwarf.ErrUnknownScope
)

// ParseError reports the input line and record kind a parse failure was
// detected at.
type ParseError = dwarf.ParseError
