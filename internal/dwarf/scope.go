package dwarf

// scopeFrame records the kind and the id or registered name of one
// enclosing statement record.
type scopeFrame struct {
	kind string
	name string
}

// scopeStack tracks the nesting path as statement records arrive with
// arbitrary depth changes. The top frame is always the record just
// processed; the frame below it is the parent context.
type scopeStack struct {
	depth  int
	frames []scopeFrame
}

func newScopeStack() *scopeStack {
	return &scopeStack{depth: -1}
}

// enter updates the stack for a record at the given depth: deeper pushes a
// frame, shallower truncates to that depth, equal replaces the top.
func (s *scopeStack) enter(depth int, kind, id string) {
	switch {
	case depth > s.depth:
		s.frames = append(s.frames, scopeFrame{})
		s.depth = depth
	case depth < s.depth:
		if depth+1 < len(s.frames) {
			s.frames = s.frames[:depth+1]
		}
		s.depth = depth
	}
	s.frames[len(s.frames)-1] = scopeFrame{kind: kind, name: id}
}

// setTopName rebinds the top frame to a registered layout name, so child
// records see the name rather than the raw statement id.
func (s *scopeStack) setTopName(name string) {
	s.frames[len(s.frames)-1].name = name
}

// parent returns the frame enclosing the current record, if any.
func (s *scopeStack) parent() (scopeFrame, bool) {
	if len(s.frames) < 2 {
		return scopeFrame{}, false
	}
	return s.frames[len(s.frames)-2], true
}
