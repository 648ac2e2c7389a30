package reactive

import (
	"fmt"
	"slices"
)

// notify invalidates everything downstream of a changed signal, trigger or
// animation.
func (rs *ReactiveSystem) notify(producer NodeID) {
	rs.propagate(slices.Clone(rs.subs.observers[producer]))
}

// TrackParameter subscribes scope to a host parameter. A zero scope is a no-op.
func (rs *ReactiveSystem) TrackParameter(param ParamID, scope NodeID) {
	if scope.IsZero() {
		return
	}
	if s, ok := rs.arena.get(scope); ok {
		if k := s.v.kind(); !canObserve(k) {
			panic(fmt.Sprintf("reactive: %s is a %s and cannot track parameters", scope, k))
		}
		rs.subs.addParam(param, scope)
	}
}

// TrackWidgetStatus subscribes scope to the bits of mask on el.
func (rs *ReactiveSystem) TrackWidgetStatus(el ElementID, mask StatusFlags, scope NodeID) {
	if scope.IsZero() || mask == 0 {
		return
	}
	if s, ok := rs.arena.get(scope); ok {
		if k := s.v.kind(); !canObserve(k) {
			panic(fmt.Sprintf("reactive: %s is a %s and cannot track element status", scope, k))
		}
		rs.subs.addStatus(el, mask, scope)
	}
}

// NotifyParameterChanged is called by the host after a parameter changed.
func (rs *ReactiveSystem) NotifyParameterChanged(param ParamID) {
	rs.propagate(slices.Clone(rs.subs.paramObservers[param]))
	rs.afterWrite()
}

// NotifyWidgetStatusChanged is called after the status bits in changed
// flipped on el. Only nodes tracking one of those bits are invalidated.
func (rs *ReactiveSystem) NotifyWidgetStatusChanged(el ElementID, changed StatusFlags) {
	if changed == 0 {
		return
	}
	rs.propagate(rs.subs.statusSeeds(el, changed))
	rs.afterWrite()
}

// propagate is a breadth first mark. Direct observers become Dirty, everything
// further down becomes Check; states only ever go up, and a node whose state
// did not change is not expanded again. Effects, bindings and derived
// animations reached this way are then brought up to date eagerly.
func (rs *ReactiveSystem) propagate(seeds []NodeID) {
	if len(seeds) == 0 {
		return
	}
	type item struct {
		id    NodeID
		state NodeState
	}
	queue := make([]item, 0, len(seeds))
	for _, id := range seeds {
		queue = append(queue, item{id, Dirty})
	}

	for head := 0; head < len(queue); head++ {
		it := queue[head]
		s, ok := rs.arena.get(it.id)
		if !ok {
			continue
		}
		if _, ok := s.v.(*computingNode); ok {
			panic(fmt.Sprintf("reactive: cycle detected, %s invalidated while computing", it.id))
		}
		if e, ok := s.v.(*effectNode); ok && e.running && it.state == Dirty {
			// a running effect writing one of its own direct sources already
			// has the new value; anything reaching it through a memo still
			// has to re-run it
			continue
		}
		if s.state >= it.state {
			continue
		}
		s.state = it.state
		if isBoundary(s.v.kind()) {
			rs.boundaries = append(rs.boundaries, it.id)
		}
		for _, o := range rs.subs.observers[it.id] {
			queue = append(queue, item{o, Check})
		}
	}

	rs.flushBoundaries()
}

func (rs *ReactiveSystem) flushBoundaries() {
	for len(rs.boundaries) > 0 {
		id := rs.boundaries[0]
		rs.boundaries = rs.boundaries[1:]
		if rs.Alive(id) {
			rs.updateIfNecessary(id)
		}
	}
}

// updateIfNecessary brings id up to date. A Check node first updates its
// sources in order and only re-evaluates if one of them actually changed;
// otherwise it goes back to Clean without running.
func (rs *ReactiveSystem) updateIfNecessary(id NodeID) {
	s := rs.arena.mustGet(id)
	if _, ok := s.v.(*computingNode); ok {
		panic(fmt.Sprintf("reactive: cycle detected, %s depends on itself", id))
	}
	if s.state == Clean {
		return
	}

	if s.state == Check {
		for _, src := range slices.Clone(rs.subs.sources[id]) {
			if rs.Alive(src) {
				rs.updateIfNecessary(src)
			}
			if !rs.Alive(id) {
				return
			}
			if s.state == Dirty {
				break
			}
		}
	}

	if s.state == Dirty {
		rs.evaluate(id, s)
		return
	}
	s.state = Clean
}

// evaluate re-runs a Dirty node according to its variant.
func (rs *ReactiveSystem) evaluate(id NodeID, s *slot) {
	switch v := s.v.(type) {
	case *memoNode:
		rs.recomputeMemo(id, v)
	case *derivedAnimationNode:
		rs.resetDerived(id, v)
	case *effectNode:
		// effects stay Dirty until their task runs
		rs.enqueueEffect(id, v)
	case *signalNode, *triggerNode, *animationNode, *emitterNode, *handlerNode:
		s.state = Clean
	case *computingNode:
		panic(fmt.Sprintf("reactive: cycle detected, %s depends on itself", id))
	default:
		panic(fmt.Sprintf("reactive: unknown variant %T", v))
	}
}

// compute runs fn with id's variant swapped for the computing sentinel.
func (rs *ReactiveSystem) compute(id NodeID, v variant, fn func(rc *ReadContext)) {
	rs.subs.clearSources(id)
	s := rs.arena.mustGet(id)
	s.v = &computingNode{held: v}
	defer func() {
		if s, ok := rs.arena.get(id); ok {
			s.v = v
		}
	}()
	fn(&ReadContext{rs: rs, id: id})
}

func (rs *ReactiveSystem) recomputeMemo(id NodeID, m *memoNode) {
	var next any
	rs.compute(id, m, func(rc *ReadContext) {
		next = m.compute(rc)
	})
	changed := !m.computed || !m.equal(m.value, next)
	m.value = next
	m.computed = true
	rs.arena.mustGet(id).state = Clean
	if changed {
		for _, o := range slices.Clone(rs.subs.observers[id]) {
			rs.markDirty(o)
		}
	}
}

// markDirty is used when a recomputed value really changed: the observers
// must re-run, not just check.
func (rs *ReactiveSystem) markDirty(id NodeID) {
	s, ok := rs.arena.get(id)
	if !ok || s.state == Dirty {
		return
	}
	switch v := s.v.(type) {
	case *effectNode:
		s.state = Dirty
		rs.enqueueEffect(id, v)
	case *derivedAnimationNode:
		s.state = Dirty
		rs.boundaries = append(rs.boundaries, id)
	case *computingNode:
		panic(fmt.Sprintf("reactive: cycle detected, %s invalidated while computing", id))
	default:
		s.state = Dirty
	}
}
