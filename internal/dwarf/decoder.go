package dwarf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ralphymoto/volatility/vtypes"
)

// rawRecord is one decoded debug line:
//
//	<2><1442><DW_TAG_member> DW_AT_name<fs> DW_AT_type<<1455>> ...
//
// The header carries nesting depth, statement id, and record kind; the rest
// of the line is key-value pairs. A rawRecord lives only for one feed step,
// and its id is meaningful only within the current compilation unit.
type rawRecord struct {
	depth int
	id    string
	kind  string
	attrs map[string]string
}

var (
	headerRegexp = regexp.MustCompile(`^<(\d+)><([0-9+]+)><(\w+)>`)
	keyValRegexp = regexp.MustCompile(`(\w+)<([^>]*)>`)
)

// decodeLine parses a single line into a rawRecord. Anything that does not
// open with a <depth><id><kind> header is noise and returns ok false. Pair
// scanning skips junk between pairs; a repeated key keeps its last value.
func decodeLine(line string) (rawRecord, bool) {
	hdr := headerRegexp.FindStringSubmatchIndex(line)
	if hdr == nil {
		return rawRecord{}, false
	}

	depth, err := strconv.Atoi(line[hdr[2]:hdr[3]])
	if err != nil {
		return rawRecord{}, false
	}

	rec := rawRecord{
		depth: depth,
		id:    line[hdr[4]:hdr[5]],
		kind:  line[hdr[6]:hdr[7]],
		attrs: make(map[string]string),
	}

	for pos := hdr[1]; pos < len(line); {
		m := keyValRegexp.FindStringSubmatchIndex(line[pos:])
		if m == nil {
			break
		}
		rec.attrs[line[pos+m[2]:pos+m[3]]] = line[pos+m[4] : pos+m[5]]
		pos += m[1]
	}

	return rec, true
}

// typeRefFromAttr interprets a DW_AT_type style attribute value. References
// to other records arrive as "<id" because pair scanning stops at the first
// closing bracket of "<<id>>".
func typeRefFromAttr(val string) vtypes.TypeRef {
	if strings.HasPrefix(val, "<") {
		return vtypes.Ref{ID: val[1:]}
	}
	return vtypes.TypeName{Name: val}
}

// parseLooseInt parses integer values that may carry trailing annotation,
// e.g. "7(as signed)". The plain form is tried first, then the integer
// before the first parenthesis.
func parseLooseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	head, _, _ := strings.Cut(s, "(")
	if v, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64); err == nil {
		return v, true
	}
	return 0, false
}
