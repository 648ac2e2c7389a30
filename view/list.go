// Package view reconciles reactive collections into element tree children.
package view

import (
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signalgraph/diff"
	"github.com/delaneyj/signalgraph/reactive"
	"github.com/delaneyj/signalgraph/uitree"
)

// BuildFunc fills in a freshly created row element. Nodes created through cc
// are owned by the row and go away with it.
type BuildFunc[T any] func(cc *reactive.CreateContext, row reactive.ElementID, item T)

// List keeps the children of parent in step with a slice of items. Items are
// identified by key: an item whose key survives keeps its row, possibly at a
// new position, and is not rebuilt. The list assumes it owns every child of
// parent.
type List[T any, K comparable] struct {
	tree   *uitree.Tree
	parent reactive.ElementID
	kind   string
	items  reactive.Readable[[]T]
	key    func(T) K
	build  BuildFunc[T]

	keys   []K
	rows   []reactive.ElementID
	ops    map[diff.OpKind]int
	effect reactive.NodeID
}

// NewList starts reconciling right away. The reconciling effect is owned by
// parent, so destroying parent stops it. rs must be configured with tree as
// its element tree.
func NewList[T any, K comparable](
	rs *reactive.ReactiveSystem,
	tree *uitree.Tree,
	parent reactive.ElementID,
	kind string,
	items reactive.Readable[[]T],
	key func(T) K,
	build BuildFunc[T],
) *List[T, K] {
	l := &List[T, K]{
		tree:   tree,
		parent: parent,
		kind:   kind,
		items:  items,
		key:    key,
		build:  build,
		ops:    map[diff.OpKind]int{},
	}
	l.effect = reactive.NewEffect(rs.Element(parent), l.reconcile)
	return l
}

func (l *List[T, K]) reconcile(ec *reactive.EffectContext) error {
	items := l.items.Get(ec)
	keys := make([]K, len(items))
	for i, it := range items {
		keys[i] = l.key(it)
	}

	for _, e := range diff.Keyed(l.keys, keys, items) {
		l.ops[e.Kind]++
		switch e.Kind {
		case diff.OpRemove:
			for _, row := range l.rows[e.Index : e.Index+e.Len] {
				ec.DestroyElement(row)
			}
			l.rows = slices.Delete(l.rows, e.Index, e.Index+e.Len)
		case diff.OpReplace:
			ec.DestroyElement(l.rows[e.Index])
			l.rows[e.Index] = l.buildRow(ec, e.Index, e.Value)
		case diff.OpInsert:
			for i, it := range e.Values {
				l.rows = slices.Insert(l.rows, e.Index+i, l.buildRow(ec, e.Index+i, it))
			}
		case diff.OpMove:
			l.tree.Move(l.parent, e.From, e.To)
			row := l.rows[e.From]
			l.rows = slices.Delete(l.rows, e.From, e.From+1)
			l.rows = slices.Insert(l.rows, e.To, row)
		}
	}
	l.keys = keys
	return nil
}

func (l *List[T, K]) buildRow(ec *reactive.EffectContext, index int, item T) reactive.ElementID {
	row := l.tree.CreateAt(l.parent, index, l.kind)
	if l.build != nil {
		l.build(ec.Element(row), row, item)
	}
	return row
}

// Rows returns the row elements in display order.
func (l *List[T, K]) Rows() []reactive.ElementID {
	return slices.Clone(l.rows)
}

func (l *List[T, K]) Keys() []K {
	return slices.Clone(l.keys)
}

// Ops counts every edit applied so far, by kind.
func (l *List[T, K]) Ops() map[diff.OpKind]int {
	return maps.Clone(l.ops)
}

func (l *List[T, K]) Effect() reactive.NodeID {
	return l.effect
}

// HashKey turns a string identity into a compact list key.
func HashKey(s string) uint64 {
	return xxhash.Sum64String(s)
}
