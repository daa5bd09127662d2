package vtypes

import "sort"

// Member is one named member of a struct or union layout.
type Member struct {
	Name   string
	Offset int64 // absolute byte offset from the start of the aggregate
	Type   TypeRef
}

// StructLayout is a resolved struct or union definition: total size plus
// named, offset-tagged members in declaration order.
type StructLayout struct {
	Name     string
	ByteSize int64
	Members  []Member
}

// Member returns the member with the given name.
func (s *StructLayout) Member(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// PutMember inserts m, replacing an existing member of the same name in
// place so declaration order is preserved.
func (s *StructLayout) PutMember(m Member) {
	for i := range s.Members {
		if s.Members[i].Name == m.Name {
			s.Members[i] = m
			return
		}
	}
	s.Members = append(s.Members, m)
}

// MembersByOffset returns a copy of the members sorted by byte offset.
// Members at the same offset keep their declaration order.
func (s *StructLayout) MembersByOffset() []Member {
	out := make([]Member, len(s.Members))
	copy(out, s.Members)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// EnumLayout is an enumeration definition: storage size plus name-to-value
// pairs. Enum layouts exist only while parsing; finished member types carry
// inlined Enumeration nodes instead.
type EnumLayout struct {
	Name     string
	ByteSize int64
	Values   map[string]int64
}

// GlobalVar is a variable with a fixed address.
type GlobalVar struct {
	Name    string
	Address uint64
	Type    TypeRef
}

// LocalVar is a function-scoped variable or formal parameter, collected for
// diagnostics only.
type LocalVar struct {
	Name     string
	DeclLine int64
	DeclFile string
	Type     TypeRef
}
