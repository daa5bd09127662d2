package dwarf

import (
	"fmt"
	"strconv"
)

// sizeToType names the plain C integer type of a given storage size. It
// doubles as the storage-name table for inlined enumerations.
var sizeToType = map[int64]string{
	8: "long long",
	4: "long",
	2: "short",
	1: "char",
}

// nameToType translates the compiler's spelling of a primitive to its
// canonical vtype name.
var nameToType = map[string]string{
	"_Bool":                  "unsigned char",
	"char":                   "char",
	"float":                  "float",
	"double":                 "double",
	"long double":            "double",
	"int":                    "int",
	"long int":               "long",
	"long long int":          "long long",
	"long long unsigned int": "unsigned long long",
	"long unsigned int":      "unsigned long",
	"short int":              "short",
	"short unsigned int":     "unsigned short",
	"signed char":            "signed char",
	"unsigned char":          "unsigned char",
	"unsigned int":           "unsigned int",
}

// baseTypeName resolves a base-type record to a primitive name: directly
// through the translation table when the record is named, otherwise from its
// byte size and signedness encoding.
func baseTypeName(attrs map[string]string) (string, error) {
	if name, ok := attrs[attrName]; ok {
		vol, ok := nameToType[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownBaseType, name)
		}
		return vol, nil
	}

	sizeStr, ok := attrs[attrByteSize]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingAttribute, attrByteSize)
	}
	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q", ErrBadAttribute, attrByteSize, sizeStr)
	}
	name, ok := sizeToType[size]
	if !ok {
		return "", fmt.Errorf("%w: %d-byte primitive", ErrUnknownBaseType, size)
	}

	enc, ok := attrs[attrEncoding]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingAttribute, attrEncoding)
	}
	if enc == "DW_ATE_unsigned" {
		return "unsigned " + name, nil
	}
	return name, nil
}
