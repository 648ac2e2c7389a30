package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// ownership is the owner -> owned index. It is a tree and is independent of
// the dependency edges.
type ownership struct {
	byElement map[ElementID]mapset.Set[NodeID]
	byNode    map[NodeID]mapset.Set[NodeID]
}

func newOwnership() ownership {
	return ownership{
		byElement: map[ElementID]mapset.Set[NodeID]{},
		byNode:    map[NodeID]mapset.Set[NodeID]{},
	}
}

func (o *ownership) set(owner Owner, create bool) mapset.Set[NodeID] {
	switch owner.kind {
	case ownerElement:
		s, ok := o.byElement[owner.element]
		if !ok && create {
			s = mapset.NewThreadUnsafeSet[NodeID]()
			o.byElement[owner.element] = s
		}
		return s
	case ownerNode:
		s, ok := o.byNode[owner.node]
		if !ok && create {
			s = mapset.NewThreadUnsafeSet[NodeID]()
			o.byNode[owner.node] = s
		}
		return s
	default:
		return nil
	}
}

func (o *ownership) attach(owner Owner, id NodeID) {
	if s := o.set(owner, true); s != nil {
		s.Add(id)
	}
}

func (o *ownership) detach(owner Owner, id NodeID) {
	s := o.set(owner, false)
	if s == nil {
		return
	}
	s.Remove(id)
	if s.Cardinality() == 0 {
		o.drop(owner)
	}
}

// take removes and returns everything owner owns.
func (o *ownership) take(owner Owner) []NodeID {
	s := o.set(owner, false)
	if s == nil {
		return nil
	}
	o.drop(owner)
	return s.ToSlice()
}

func (o *ownership) drop(owner Owner) {
	switch owner.kind {
	case ownerElement:
		delete(o.byElement, owner.element)
	case ownerNode:
		delete(o.byNode, owner.node)
	}
}

func (o *ownership) owned(owner Owner) []NodeID {
	if s := o.set(owner, false); s != nil {
		return s.ToSlice()
	}
	return nil
}

// Remove destroys a node, everything it owns, and every edge touching it.
// Removing an already removed node is a no-op.
func (rs *ReactiveSystem) Remove(id NodeID) {
	rs.remove(id)
}

func (rs *ReactiveSystem) remove(id NodeID) {
	s, ok := rs.arena.get(id)
	if !ok {
		return
	}
	// Children first, depth first. The owner link is cut before recursing so
	// a child never tries to detach from a half-removed parent set.
	for _, child := range rs.owned.take(OwnedByNode(id)) {
		rs.remove(child)
	}
	rs.owned.detach(s.owner, id)

	switch v := s.v.(type) {
	case *handlerNode:
		if _, em, ok := rs.emitter(v.emitter); ok {
			em.handlers = without(em.handlers, id)
		}
	case *emitterNode:
		for _, h := range append([]NodeID(nil), v.handlers...) {
			rs.remove(h)
		}
	case *effectNode:
		v.queued = false
	}

	rs.subs.removeNode(id)
	rs.unschedule(id)
	rs.arena.release(id)
	rs.logger.Debug("node removed", "node", id)
}

// ElementDestroyed releases every node owned by el. The element tree calls
// this (directly or through EffectContext.DestroyElement) for each element it
// destroys.
func (rs *ReactiveSystem) ElementDestroyed(el ElementID) {
	owner := OwnedByElement(el)
	for _, id := range rs.owned.take(owner) {
		rs.remove(id)
	}
	rs.subs.forgetElement(el)
}

// disposeOwned removes the nodes a node created during its previous run.
func (rs *ReactiveSystem) disposeOwned(id NodeID) {
	for _, child := range rs.owned.take(OwnedByNode(id)) {
		rs.remove(child)
	}
}

// OwnedBy lists the nodes directly owned by owner.
func (rs *ReactiveSystem) OwnedBy(owner Owner) []NodeID {
	return rs.owned.owned(owner)
}
