package reactive

import "fmt"

// NodeID is the arena identity of a node. The generation makes a stale id
// stop resolving once its slot has been recycled.
type NodeID struct {
	index      uint32
	generation uint32
}

func (id NodeID) IsZero() bool {
	return id.generation == 0
}

func (id NodeID) String() string {
	if id.IsZero() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d@%d)", id.index, id.generation)
}

// ElementID identifies a UI element in the external element tree.
type ElementID uint64

// ParamID identifies a host parameter.
type ParamID uint32

// StatusFlags is the per-element status bitmask (focus, hover, ...).
type StatusFlags uint32

const (
	StatusHover StatusFlags = 1 << iota
	StatusFocus
	StatusActive
	StatusDisabled
	StatusChecked
)

type NodeState uint8

const (
	Clean NodeState = iota // value is valid
	Check                  // a transitive source changed, sources must be checked first
	Dirty                  // a direct source changed, must be re-evaluated
)

func (s NodeState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Check:
		return "check"
	case Dirty:
		return "dirty"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindMemo
	KindEffect
	KindBinding
	KindTrigger
	KindAnimation
	KindDerivedAnimation
	KindEmitter
	KindHandler
)

var kindNames = map[Kind]string{
	KindSignal:           "signal",
	KindMemo:             "memo",
	KindEffect:           "effect",
	KindBinding:          "binding",
	KindTrigger:          "trigger",
	KindAnimation:        "animation",
	KindDerivedAnimation: "derived-animation",
	KindEmitter:          "emitter",
	KindHandler:          "handler",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type ownerKind uint8

const (
	ownerNone ownerKind = iota
	ownerElement
	ownerNode
)

// Owner is the element or node responsible for destroying a node. The zero
// value means the node lives until it is removed explicitly.
type Owner struct {
	kind    ownerKind
	element ElementID
	node    NodeID
}

var NoOwner = Owner{}

func OwnedByElement(el ElementID) Owner {
	return Owner{kind: ownerElement, element: el}
}

func OwnedByNode(id NodeID) Owner {
	return Owner{kind: ownerNode, node: id}
}

func (o Owner) Element() (ElementID, bool) {
	return o.element, o.kind == ownerElement
}

func (o Owner) Node() (NodeID, bool) {
	return o.node, o.kind == ownerNode
}

func (o Owner) String() string {
	switch o.kind {
	case ownerElement:
		return fmt.Sprintf("element(%d)", o.element)
	case ownerNode:
		return o.node.String()
	default:
		return "none"
	}
}
