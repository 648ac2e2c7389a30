// Package diff computes edit scripts that turn one ordered sequence into
// another. Keyed is the path list views use; Sequence is a plain Myers diff
// for values without identity.
//
// Scripts are meant to be replayed in order against the old sequence. Every
// index refers to the sequence as it looks after all previous edits.
package diff

import (
	"fmt"
	"slices"
)

type OpKind uint8

const (
	OpRemove OpKind = iota + 1
	OpReplace
	OpInsert
	OpMove
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	default:
		return fmt.Sprintf("OpKind(%d)", k)
	}
}

// Edit is a single step of a script. Which fields are set depends on Kind:
//
//	Remove:  Index, Len
//	Replace: Index, Value
//	Insert:  Index, Values
//	Move:    From, To (To is an index after the element was taken out)
type Edit[V any] struct {
	Kind   OpKind
	Index  int
	Len    int
	From   int
	To     int
	Value  V
	Values []V
}

func (e Edit[V]) String() string {
	switch e.Kind {
	case OpRemove:
		return fmt.Sprintf("remove(%d,%d)", e.Index, e.Len)
	case OpReplace:
		return fmt.Sprintf("replace(%d,%v)", e.Index, e.Value)
	case OpInsert:
		return fmt.Sprintf("insert(%d,%v)", e.Index, e.Values)
	case OpMove:
		return fmt.Sprintf("move(%d->%d)", e.From, e.To)
	default:
		return e.Kind.String()
	}
}

// Apply replays edits on dst and returns the result. dst may be modified.
func Apply[V any](dst []V, edits []Edit[V]) []V {
	for _, e := range edits {
		switch e.Kind {
		case OpRemove:
			dst = slices.Delete(dst, e.Index, e.Index+e.Len)
		case OpReplace:
			dst[e.Index] = e.Value
		case OpInsert:
			dst = slices.Insert(dst, e.Index, e.Values...)
		case OpMove:
			v := dst[e.From]
			dst = slices.Delete(dst, e.From, e.From+1)
			dst = slices.Insert(dst, e.To, v)
		default:
			panic(fmt.Sprintf("diff: unknown edit %v", e.Kind))
		}
	}
	return dst
}

// Count tallies a script by kind.
func Count[V any](edits []Edit[V]) map[OpKind]int {
	counts := map[OpKind]int{}
	for _, e := range edits {
		counts[e.Kind]++
	}
	return counts
}
