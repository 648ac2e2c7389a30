package diff

import (
	"fmt"
	"slices"
)

// Keyed diffs two key sequences. values holds the payload for each entry of
// new and is what Insert and Replace edits carry. Keys are compared only for
// identity; duplicate keys are allowed.
//
// The common prefix and suffix are trimmed first. The remaining window is
// walked from both ends: matching keys at either end are kept as they are.
// Otherwise the front mismatch is classified by whether the old key is still
// wanted and whether the new key can still be found in the old window:
//
//	old wanted,  new found   -> Move the new key up from further down
//	old surplus, new found   -> Remove the old key
//	old wanted,  new missing -> Insert the new key
//	old surplus, new missing -> Replace
//
// The script is not minimal in moves.
func Keyed[K comparable, V any](old, new []K, values []V) []Edit[V] {
	if len(values) != len(new) {
		panic(fmt.Sprintf("diff: %d values for %d keys", len(values), len(new)))
	}

	prefix := 0
	for prefix < len(old) && prefix < len(new) && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(new)-prefix &&
		old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}

	from := old[prefix : len(old)-suffix]
	want := new[prefix : len(new)-suffix]
	if len(from) == 0 && len(want) == 0 {
		return nil
	}

	// have and need count the keys of the old window still in play and the
	// new keys still to place
	have := make(map[K]int, len(from))
	at := make(map[K][]int, len(from))
	for p, k := range from {
		have[k]++
		at[k] = append(at[k], p)
	}
	need := make(map[K]int, len(want))
	for _, k := range want {
		need[k]++
	}

	// taken marks old positions that were kept, moved or removed. live counts
	// the rest, which gives a position's index in the list being edited.
	taken := make([]bool, len(from))
	live := newFenwick(len(from))
	left := len(from)
	take := func(p int) {
		taken[p] = true
		live.add(p, -1)
		have[from[p]]--
		left--
	}

	var edits []Edit[V]
	emit := func(e Edit[V]) {
		if n := len(edits); n > 0 {
			prev := &edits[n-1]
			switch {
			case e.Kind == OpRemove && prev.Kind == OpRemove && prev.Index == e.Index:
				prev.Len += e.Len
				return
			case e.Kind == OpInsert && prev.Kind == OpInsert && prev.Index+len(prev.Values) == e.Index:
				prev.Values = append(prev.Values, e.Values...)
				return
			}
		}
		edits = append(edits, e)
	}

	// the list being edited is always
	// old[:prefix] + want[:lo] + live old entries + want[hi:] + old suffix
	i, j := 0, len(from)-1
	lo, hi := 0, len(want)
	for {
		for i < len(from) && taken[i] {
			i++
		}
		for j >= 0 && taken[j] {
			j--
		}
		pos := prefix + lo
		if lo == hi {
			if left > 0 {
				emit(Edit[V]{Kind: OpRemove, Index: pos, Len: left})
			}
			return edits
		}
		if left == 0 {
			emit(Edit[V]{Kind: OpInsert, Index: pos, Values: slices.Clone(values[pos : prefix+hi])})
			return edits
		}

		oldKey, newKey := from[i], want[lo]
		wanted := have[oldKey] <= need[oldKey]
		switch {
		case oldKey == newKey:
			take(i)
			need[newKey]--
			lo++
		case from[j] == want[hi-1]:
			need[from[j]]--
			take(j)
			hi--
		case wanted && have[newKey] > 0:
			q := at[newKey]
			for taken[q[0]] {
				q = q[1:]
			}
			at[newKey] = q
			emit(Edit[V]{Kind: OpMove, From: pos + live.sum(q[0]), To: pos})
			take(q[0])
			need[newKey]--
			lo++
		case have[newKey] > 0:
			emit(Edit[V]{Kind: OpRemove, Index: pos, Len: 1})
			take(i)
		case wanted:
			emit(Edit[V]{Kind: OpInsert, Index: pos, Values: []V{values[pos]}})
			need[newKey]--
			lo++
		default:
			emit(Edit[V]{Kind: OpReplace, Index: pos, Value: values[pos]})
			take(i)
			need[newKey]--
			lo++
		}
	}
}

// fenwick is a binary indexed tree over old window positions.
type fenwick []int

// newFenwick starts with every position counted once.
func newFenwick(n int) fenwick {
	f := make(fenwick, n+1)
	for i := 1; i <= n; i++ {
		f[i]++
		if p := i + i&-i; p <= n {
			f[p] += f[i]
		}
	}
	return f
}

func (f fenwick) add(i, d int) {
	for i++; i < len(f); i += i & -i {
		f[i] += d
	}
}

// sum counts positions [0, i).
func (f fenwick) sum(i int) int {
	s := 0
	for ; i > 0; i -= i & -i {
		s += f[i]
	}
	return s
}
