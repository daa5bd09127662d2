package dwarf

import (
	"fmt"

	"github.com/ralphymoto/volatility/vtypes"
)

// resolve rewrites every statement-id reference inside t to the type the
// current unit's index binds it to. Ids unknown to the unit fail with
// ErrUnresolvedReference; reference cycles fail with ErrCircularReference.
func (p *Parser) resolve(t vtypes.TypeRef) (vtypes.TypeRef, error) {
	return p.resolveGuarded(t, make(map[string]struct{}))
}

func (p *Parser) resolveGuarded(t vtypes.TypeRef, visited map[string]struct{}) (vtypes.TypeRef, error) {
	switch v := t.(type) {
	case vtypes.Ref:
		if _, seen := visited[v.ID]; seen {
			return nil, fmt.Errorf("%w: <%s>", ErrCircularReference, v.ID)
		}
		target, ok := p.unit.index[v.ID]
		if !ok {
			return nil, fmt.Errorf("%w: <%s>", ErrUnresolvedReference, v.ID)
		}
		visited[v.ID] = struct{}{}
		resolved, err := p.resolveGuarded(target, visited)
		delete(visited, v.ID)
		return resolved, err

	case vtypes.Pointer:
		target, err := p.resolveGuarded(v.Target, visited)
		if err != nil {
			return nil, err
		}
		return vtypes.Pointer{Target: target}, nil

	case vtypes.Array:
		elem, err := p.resolveGuarded(v.Elem, visited)
		if err != nil {
			return nil, err
		}
		return vtypes.Array{Count: v.Count, Elem: elem}, nil
	}

	return t, nil
}
