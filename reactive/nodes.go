package reactive

import "fmt"

// variant is the closed set of node payloads. The scheduler matches on it
// with exhaustive type switches.
type variant interface {
	kind() Kind
}

type signalNode struct {
	value any
}

type memoNode struct {
	value    any
	computed bool
	compute  func(rc *ReadContext) any
	equal    func(a, b any) bool
}

// effectNode backs both effects and bindings. A binding is an effect whose
// run closure tracks exactly one external source.
type effectNode struct {
	binding bool
	run     func(ec *EffectContext) error
	queued  bool
	running bool
}

type triggerNode struct{}

type animationNode struct {
	motion *motion
}

type derivedAnimationNode struct {
	motion  *motion
	target  func(rc *ReadContext) float64
	started bool
}

type emitterNode struct {
	handlers []NodeID
}

type handlerNode struct {
	emitter NodeID
	fn      func(ec *EffectContext, ev any) error
}

// computingNode stands in for a node while it is being re-evaluated. Meeting
// one during a read or a walk means the node depends on itself.
type computingNode struct {
	held variant
}

func (*signalNode) kind() Kind           { return KindSignal }
func (*memoNode) kind() Kind             { return KindMemo }
func (*triggerNode) kind() Kind          { return KindTrigger }
func (*animationNode) kind() Kind        { return KindAnimation }
func (*derivedAnimationNode) kind() Kind { return KindDerivedAnimation }
func (*emitterNode) kind() Kind          { return KindEmitter }
func (*handlerNode) kind() Kind          { return KindHandler }
func (c *computingNode) kind() Kind      { return c.held.kind() }

func (e *effectNode) kind() Kind {
	if e.binding {
		return KindBinding
	}
	return KindEffect
}

// canObserve reports whether nodes of kind k may gain sources.
func canObserve(k Kind) bool {
	switch k {
	case KindMemo, KindEffect, KindBinding, KindDerivedAnimation:
		return true
	default:
		return false
	}
}

// isBoundary reports whether nodes of kind k must be evaluated eagerly when
// they become stale.
func isBoundary(k Kind) bool {
	switch k {
	case KindEffect, KindBinding, KindDerivedAnimation:
		return true
	default:
		return false
	}
}

func valueOf(id NodeID, v variant) any {
	switch v := v.(type) {
	case *signalNode:
		return v.value
	case *memoNode:
		return v.value
	case *animationNode:
		return v.motion.value
	case *derivedAnimationNode:
		return v.motion.value
	case *triggerNode:
		return nil
	case *computingNode:
		panic(fmt.Sprintf("reactive: cycle detected, %s read while computing", id))
	case *effectNode, *emitterNode, *handlerNode:
		panic(fmt.Sprintf("reactive: %s (%s) has no readable value", id, v.kind()))
	default:
		panic(fmt.Sprintf("reactive: unknown variant %T", v))
	}
}

func cast[T any](id NodeID, v any) T {
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("reactive: type mismatch on %s: have %T, want %T", id, v, t))
	}
	return t
}

func mustVariant[V variant](rs *ReactiveSystem, id NodeID) (*slot, V) {
	s := rs.arena.mustGet(id)
	v, ok := s.v.(V)
	if !ok {
		if _, computing := s.v.(*computingNode); computing {
			panic(fmt.Sprintf("reactive: cycle detected at %s", id))
		}
		panic(fmt.Sprintf("reactive: %s is a %s, not %T", id, s.v.kind(), v))
	}
	return s, v
}
