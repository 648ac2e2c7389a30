package reactive

import "fmt"

// Reader can read nodes. Reads through a tracking reader become sources of
// the node the reader belongs to.
type Reader interface {
	system() *ReactiveSystem
	scope() NodeID
}

// Creator can create nodes; it knows the owner new nodes are attached to.
type Creator interface {
	system() *ReactiveSystem
	owner() Owner
}

// Writer can write signals, fire triggers, emit events and drive animations.
type Writer interface {
	system() *ReactiveSystem
	writer()
}

// The system itself reads untracked, creates unowned nodes and writes from
// outside any task.
func (rs *ReactiveSystem) system() *ReactiveSystem { return rs }
func (rs *ReactiveSystem) scope() NodeID           { return NodeID{} }
func (rs *ReactiveSystem) owner() Owner            { return NoOwner }
func (rs *ReactiveSystem) writer()                 {}

// ReadContext is handed to memo and derived animation functions. It can only
// read, and every read is recorded.
type ReadContext struct {
	rs *ReactiveSystem
	id NodeID
}

func (rc *ReadContext) system() *ReactiveSystem { return rc.rs }
func (rc *ReadContext) scope() NodeID           { return rc.id }

// Node is the node this context reads for.
func (rc *ReadContext) Node() NodeID {
	return rc.id
}

func (rc *ReadContext) System() *ReactiveSystem {
	return rc.rs
}

// Parameter reads a host parameter and subscribes to its changes.
func (rc *ReadContext) Parameter(param ParamID) float64 {
	if rc.rs.params == nil {
		panic("reactive: no parameter store configured")
	}
	rc.rs.TrackParameter(param, rc.scope())
	return rc.rs.params.ParameterValue(param)
}

// Status reads the status bits of el and subscribes to changes in mask.
func (rc *ReadContext) Status(el ElementID, mask StatusFlags) StatusFlags {
	if rc.rs.status == nil {
		panic("reactive: no status source configured")
	}
	rc.rs.TrackWidgetStatus(el, mask, rc.scope())
	return rc.rs.status.Status(el) & mask
}

// EffectContext is handed to effects, bindings and event handlers. Nodes
// created through it are owned by the running node and disposed before it
// runs again.
type EffectContext struct {
	ReadContext
	untracked bool
}

func (ec *EffectContext) scope() NodeID {
	if ec.untracked {
		return NodeID{}
	}
	return ec.id
}

func (ec *EffectContext) owner() Owner { return OwnedByNode(ec.id) }
func (ec *EffectContext) writer()      {}

// Parameter reads a host parameter, tracked unless this is a binding or
// handler context.
func (ec *EffectContext) Parameter(param ParamID) float64 {
	if ec.rs.params == nil {
		panic("reactive: no parameter store configured")
	}
	ec.rs.TrackParameter(param, ec.scope())
	return ec.rs.params.ParameterValue(param)
}

func (ec *EffectContext) Status(el ElementID, mask StatusFlags) StatusFlags {
	if ec.rs.status == nil {
		panic("reactive: no status source configured")
	}
	ec.rs.TrackWidgetStatus(el, mask, ec.scope())
	return ec.rs.status.Status(el) & mask
}

func (ec *EffectContext) Tree() ElementTree {
	return ec.rs.tree
}

// DestroyElement destroys el and its descendants in the element tree and
// releases every node they owned, possibly including the running node.
func (ec *EffectContext) DestroyElement(el ElementID) {
	if ec.rs.tree == nil {
		panic("reactive: no element tree configured")
	}
	for _, id := range ec.rs.tree.DestroySubtree(el) {
		ec.rs.ElementDestroyed(id)
	}
}

// Element returns a creator whose nodes are owned by el.
func (ec *EffectContext) Element(el ElementID) *CreateContext {
	return ec.rs.Element(el)
}

// CreateContext creates nodes under an explicit owner.
type CreateContext struct {
	rs *ReactiveSystem
	o  Owner
}

func (cc *CreateContext) system() *ReactiveSystem { return cc.rs }
func (cc *CreateContext) scope() NodeID           { return NodeID{} }
func (cc *CreateContext) owner() Owner            { return cc.o }

func (cc *CreateContext) Owner() Owner {
	return cc.o
}

func (rs *ReactiveSystem) WithOwner(o Owner) *CreateContext {
	if n, ok := o.Node(); ok && !rs.Alive(n) {
		panic(fmt.Sprintf("reactive: owner %s was removed", n))
	}
	return &CreateContext{rs: rs, o: o}
}

func (rs *ReactiveSystem) Element(el ElementID) *CreateContext {
	return rs.WithOwner(OwnedByElement(el))
}
