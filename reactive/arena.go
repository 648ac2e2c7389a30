package reactive

import "fmt"

type slot struct {
	generation uint32
	alive      bool
	state      NodeState
	owner      Owner
	v          variant
}

// arena hands out stable ids. Slots are heap allocated so a *slot stays valid
// while the slice grows; a recycled slot gets a new generation.
type arena struct {
	slots []*slot
	free  []uint32
	live  int
}

func (a *arena) insert(v variant, owner Owner, state NodeState) NodeID {
	var (
		idx uint32
		s   *slot
	)
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		s = a.slots[idx]
	} else {
		idx = uint32(len(a.slots))
		s = &slot{}
		a.slots = append(a.slots, s)
	}
	s.generation++
	s.alive = true
	s.state = state
	s.owner = owner
	s.v = v
	a.live++
	return NodeID{index: idx, generation: s.generation}
}

func (a *arena) get(id NodeID) (*slot, bool) {
	if id.IsZero() || int(id.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[id.index]
	if !s.alive || s.generation != id.generation {
		return nil, false
	}
	return s, true
}

func (a *arena) mustGet(id NodeID) *slot {
	s, ok := a.get(id)
	if !ok {
		panic(fmt.Sprintf("reactive: access to removed or unknown %s", id))
	}
	return s
}

func (a *arena) release(id NodeID) {
	s, ok := a.get(id)
	if !ok {
		return
	}
	s.alive = false
	s.v = nil
	s.owner = NoOwner
	s.state = Clean
	a.free = append(a.free, id.index)
	a.live--
}
