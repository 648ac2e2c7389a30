package diff

import "slices"

type step uint8

const (
	stepEqual step = iota
	stepDelete
	stepInsert
)

// Sequence is an O(ND) Myers diff for sequences without keys. It only emits
// Remove and Insert; runs of either are coalesced.
func Sequence[T comparable](old, new []T) []Edit[T] {
	steps := myers(old, new)

	var edits []Edit[T]
	pos, y := 0, 0
	for _, s := range steps {
		switch s {
		case stepEqual:
			pos++
			y++
		case stepDelete:
			if n := len(edits); n > 0 && edits[n-1].Kind == OpRemove && edits[n-1].Index == pos {
				edits[n-1].Len++
			} else {
				edits = append(edits, Edit[T]{Kind: OpRemove, Index: pos, Len: 1})
			}
		case stepInsert:
			if n := len(edits); n > 0 && edits[n-1].Kind == OpInsert && edits[n-1].Index+len(edits[n-1].Values) == pos {
				edits[n-1].Values = append(edits[n-1].Values, new[y])
			} else {
				edits = append(edits, Edit[T]{Kind: OpInsert, Index: pos, Values: []T{new[y]}})
			}
			pos++
			y++
		}
	}
	return edits
}

// myers returns the shortest edit path from old to new as a list of steps,
// first to last. v holds the furthest x reached on each diagonal k = x - y.
// Round d only touches diagonals -d..d, so only that window of v is kept per
// round for walking the path back.
func myers[T comparable](old, new []T) []step {
	n, m := len(old), len(new)
	limit := n + m
	if limit == 0 {
		return nil
	}
	off := limit
	v := make([]int, 2*limit+2)
	var trace [][]int

search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, slices.Clone(v[off-d:off+d+1]))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && old[x] == new[y] {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var rev []step
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		w := trace[d]
		k := x - y
		var prevK int
		if k == -d || (k != d && furthest(w, d, k-1) < furthest(w, d, k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := furthest(w, d, prevK)
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			rev = append(rev, stepEqual)
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				rev = append(rev, stepInsert)
			} else {
				rev = append(rev, stepDelete)
			}
		}
		x, y = prevX, prevY
	}
	slices.Reverse(rev)
	return rev
}

// furthest reads diagonal k from the window saved at the start of round d.
// Outside it nothing has been reached yet.
func furthest(w []int, d, k int) int {
	if k < -d || k > d {
		return 0
	}
	return w[k+d]
}
