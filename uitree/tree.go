// Package uitree is a minimal retained element tree. It is the collaborator
// the reactive engine talks to when effects mutate or destroy UI elements.
package uitree

import (
	"fmt"
	"slices"

	"github.com/delaneyj/signalgraph/reactive"
)

type Element struct {
	ID       reactive.ElementID
	Parent   reactive.ElementID
	Kind     string
	Text     string
	Props    map[string]any
	Children []reactive.ElementID
	Status   reactive.StatusFlags
}

type Tree struct {
	next     reactive.ElementID
	root     reactive.ElementID
	elements map[reactive.ElementID]*Element
}

var (
	_ reactive.ElementTree  = (*Tree)(nil)
	_ reactive.StatusSource = (*Tree)(nil)
)

func New() *Tree {
	t := &Tree{elements: map[reactive.ElementID]*Element{}}
	t.root = t.alloc(0, "root")
	return t
}

func (t *Tree) alloc(parent reactive.ElementID, kind string) reactive.ElementID {
	t.next++
	id := t.next
	t.elements[id] = &Element{ID: id, Parent: parent, Kind: kind, Props: map[string]any{}}
	return id
}

func (t *Tree) Root() reactive.ElementID {
	return t.root
}

func (t *Tree) Len() int {
	return len(t.elements)
}

func (t *Tree) mustGet(id reactive.ElementID) *Element {
	el, ok := t.elements[id]
	if !ok {
		panic(fmt.Sprintf("uitree: unknown element %d", id))
	}
	return el
}

// Create appends a new child to parent.
func (t *Tree) Create(parent reactive.ElementID, kind string) reactive.ElementID {
	p := t.mustGet(parent)
	return t.CreateAt(parent, len(p.Children), kind)
}

// CreateAt inserts a new child of parent at index.
func (t *Tree) CreateAt(parent reactive.ElementID, index int, kind string) reactive.ElementID {
	p := t.mustGet(parent)
	if index < 0 || index > len(p.Children) {
		panic(fmt.Sprintf("uitree: index %d out of range for %d children", index, len(p.Children)))
	}
	id := t.alloc(parent, kind)
	p.Children = slices.Insert(p.Children, index, id)
	return id
}

func (t *Tree) Get(id reactive.ElementID) (*Element, bool) {
	el, ok := t.elements[id]
	return el, ok
}

func (t *Tree) Exists(id reactive.ElementID) bool {
	_, ok := t.elements[id]
	return ok
}

// Mutate runs fn on the element if it still exists.
func (t *Tree) Mutate(id reactive.ElementID, fn func(el *Element)) bool {
	el, ok := t.elements[id]
	if !ok {
		return false
	}
	fn(el)
	return true
}

func (t *Tree) Children(id reactive.ElementID) []reactive.ElementID {
	return slices.Clone(t.mustGet(id).Children)
}

// Move takes the child at from out of parent and reinserts it at to, where to
// is an index into the list after removal.
func (t *Tree) Move(parent reactive.ElementID, from, to int) {
	p := t.mustGet(parent)
	child := p.Children[from]
	p.Children = slices.Delete(p.Children, from, from+1)
	p.Children = slices.Insert(p.Children, to, child)
}

// DestroySubtree removes id and all of its descendants, children before
// parents, and returns the removed ids in that order.
func (t *Tree) DestroySubtree(id reactive.ElementID) []reactive.ElementID {
	el, ok := t.elements[id]
	if !ok {
		return nil
	}
	if p, ok := t.elements[el.Parent]; ok {
		if i := slices.Index(p.Children, id); i >= 0 {
			p.Children = slices.Delete(p.Children, i, i+1)
		}
	}
	var destroyed []reactive.ElementID
	var walk func(id reactive.ElementID)
	walk = func(id reactive.ElementID) {
		el := t.elements[id]
		for _, c := range el.Children {
			walk(c)
		}
		delete(t.elements, id)
		destroyed = append(destroyed, id)
	}
	walk(id)
	if id == t.root {
		t.root = 0
	}
	return destroyed
}

func (t *Tree) Status(id reactive.ElementID) reactive.StatusFlags {
	if el, ok := t.elements[id]; ok {
		return el.Status
	}
	return 0
}

// SetStatus replaces the status bits of id and returns the bits that flipped.
func (t *Tree) SetStatus(id reactive.ElementID, status reactive.StatusFlags) reactive.StatusFlags {
	el := t.mustGet(id)
	changed := el.Status ^ status
	el.Status = status
	return changed
}
