// Package reactive is a single-threaded fine-grained reactive graph: signals,
// memos, effects, bindings, triggers, animations and event emitters stored in
// an arena of stable ids, with glitch-free Clean/Check/Dirty propagation and a
// deferred task queue for side effects.
//
// Nothing in this package is safe for concurrent use. One ReactiveSystem owns
// its whole graph and every mutation goes through its methods.
package reactive

import (
	"io"
	"log/slog"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

type ReactiveSystem struct {
	arena arena
	subs  subscriptions
	owned ownership
	tasks taskQueue

	// derived animations (and any boundary marked outside a walk) waiting for
	// updateIfNecessary
	boundaries []NodeID

	pendingAnimations   []NodeID
	pendingAnimationSet mapset.Set[NodeID]

	batchDepth int
	draining   bool

	logger  *slog.Logger
	onError OnErrorFunc
	now     func() time.Time
	params  ParameterStore
	status  StatusSource
	tree    ElementTree
}

func NewReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		subs:                newSubscriptions(),
		owned:               newOwnership(),
		pendingAnimationSet: mapset.NewThreadUnsafeSet[NodeID](),
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(rs)
	}
	if rs.onError == nil {
		rs.onError = func(from NodeID, err error) {
			rs.logger.Error("reactive task failed", "node", from, "err", err)
		}
	}
	return rs
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

func (rs *ReactiveSystem) EndBatch() {
	rs.batchDepth--
	if rs.batchDepth == 0 {
		rs.drain()
	}
}

// Batch defers the task queue until cb returns. Memos and derived animations
// still update synchronously inside the batch.
func (rs *ReactiveSystem) Batch(cb func()) {
	rs.StartBatch()
	defer rs.EndBatch()
	cb()
}

func (rs *ReactiveSystem) afterWrite() {
	if rs.batchDepth == 0 {
		rs.drain()
	}
}

func (rs *ReactiveSystem) create(v variant, owner Owner, state NodeState) NodeID {
	if n, ok := owner.Node(); ok {
		rs.arena.mustGet(n)
	}
	id := rs.arena.insert(v, owner, state)
	rs.owned.attach(owner, id)
	return id
}

// read returns the value of id, bringing it up to date first and recording
// the read as a source of scope.
func (rs *ReactiveSystem) read(scope, id NodeID) any {
	s := rs.arena.mustGet(id)
	switch s.v.(type) {
	case *memoNode, *derivedAnimationNode:
		rs.updateIfNecessary(id)
		s = rs.arena.mustGet(id)
	}
	v := valueOf(id, s.v)
	rs.track(id, scope)
	return v
}

func (rs *ReactiveSystem) track(producer, scope NodeID) {
	if scope.IsZero() {
		return
	}
	sc, ok := rs.arena.get(scope)
	if !ok {
		// the scope destroyed itself mid-run
		return
	}
	if producer == scope {
		panic("reactive: cycle detected, " + scope.String() + " reads itself")
	}
	if k := sc.v.kind(); !canObserve(k) {
		panic("reactive: " + scope.String() + " is a " + k.String() + " and cannot have sources")
	}
	rs.subs.addEdge(producer, scope)
}

func (rs *ReactiveSystem) Len() int {
	return rs.arena.live
}

func (rs *ReactiveSystem) Alive(id NodeID) bool {
	_, ok := rs.arena.get(id)
	return ok
}

func (rs *ReactiveSystem) Kind(id NodeID) Kind {
	return rs.arena.mustGet(id).v.kind()
}

func (rs *ReactiveSystem) State(id NodeID) NodeState {
	return rs.arena.mustGet(id).state
}

func (rs *ReactiveSystem) Owner(id NodeID) Owner {
	return rs.arena.mustGet(id).owner
}

func (rs *ReactiveSystem) Sources(id NodeID) []NodeID {
	return slices.Clone(rs.subs.sources[id])
}

func (rs *ReactiveSystem) Observers(id NodeID) []NodeID {
	return slices.Clone(rs.subs.observers[id])
}

func (rs *ReactiveSystem) ParameterObservers(param ParamID) []NodeID {
	return slices.Clone(rs.subs.paramObservers[param])
}

func (rs *ReactiveSystem) StatusObservers(el ElementID) []NodeID {
	var ids []NodeID
	for _, e := range rs.subs.statusObservers[el] {
		ids = append(ids, e.consumer)
	}
	return ids
}
