package vtypes

import "encoding/json"

// The wire forms below mirror the textual vtype list shapes so exported
// profiles round-trip into the legacy toolchain: a named type is a
// one-element list, wrappers prepend their tag, and layouts marshal as
// [size, {member: [offset, type]}].

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal("<" + r.ID)
}

func (t TypeName) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name})
}

func (p Pointer) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"pointer", p.Target})
}

func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"array", a.Count, a.Elem})
}

type bitfieldAttrs struct {
	StartBit int64 `json:"start_bit" yaml:"start_bit"`
	EndBit   int64 `json:"end_bit" yaml:"end_bit"`
}

func (b Bitfield) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"BitField", bitfieldAttrs{b.StartBit, b.EndBit}})
}

type enumerationAttrs struct {
	Target  string           `json:"target" yaml:"target"`
	Choices map[int64]string `json:"choices" yaml:"choices"`
}

func (e Enumeration) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"Enumeration", enumerationAttrs{e.Target, e.Choices}})
}

func (s *StructLayout) MarshalJSON() ([]byte, error) {
	members := make(map[string][]any, len(s.Members))
	for _, m := range s.Members {
		members[m.Name] = []any{m.Offset, m.Type}
	}
	return json.Marshal([]any{s.ByteSize, members})
}

func (g GlobalVar) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{g.Address, g.Type})
}

func (r Ref) MarshalYAML() (any, error) {
	return "<" + r.ID, nil
}

func (t TypeName) MarshalYAML() (any, error) {
	return []any{t.Name}, nil
}

func (p Pointer) MarshalYAML() (any, error) {
	return []any{"pointer", p.Target}, nil
}

func (a Array) MarshalYAML() (any, error) {
	return []any{"array", a.Count, a.Elem}, nil
}

func (b Bitfield) MarshalYAML() (any, error) {
	return []any{"BitField", bitfieldAttrs{b.StartBit, b.EndBit}}, nil
}

func (e Enumeration) MarshalYAML() (any, error) {
	return []any{"Enumeration", enumerationAttrs{e.Target, e.Choices}}, nil
}

func (s *StructLayout) MarshalYAML() (any, error) {
	members := make(map[string][]any, len(s.Members))
	for _, m := range s.Members {
		members[m.Name] = []any{m.Offset, m.Type}
	}
	return []any{s.ByteSize, members}, nil
}

func (g GlobalVar) MarshalYAML() (any, error) {
	return []any{g.Address, g.Type}, nil
}
