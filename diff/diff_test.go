package diff_test

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/delaneyj/signalgraph/diff"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func replayKeyed(old, new []string) ([]string, []diff.Edit[string]) {
	edits := diff.Keyed(old, new, new)
	return diff.Apply(slices.Clone(old), edits), edits
}

func TestKeyedPermutation(t *testing.T) {
	old, new := keys("abcdefgh"), keys("ahbgcfde")
	got, edits := replayKeyed(old, new)
	if d := cmp.Diff(new, got); d != "" {
		t.Fatalf("replay mismatch (-want +got):\n%s", d)
	}
	want := []diff.Edit[string]{
		{Kind: diff.OpMove, From: 7, To: 1},
		{Kind: diff.OpMove, From: 7, To: 3},
		{Kind: diff.OpMove, From: 7, To: 5},
	}
	if d := cmp.Diff(want, edits); d != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", d)
	}
}

func TestKeyedNoop(t *testing.T) {
	for _, s := range []string{"", "a", "abcdefgh", "aabba"} {
		assert.Empty(t, diff.Keyed(keys(s), keys(s), keys(s)), s)
	}
}

func TestKeyedScripts(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     []string
	}{
		{"replace", "abc", "axc", []string{"replace(1,x)"}},
		{"insert", "abc", "abxyc", []string{"insert(2,[x y])"}},
		{"remove middle", "abcd", "ad", []string{"remove(1,2)"}},
		{"remove tail", "abcd", "ab", []string{"remove(2,2)"}},
		{"from empty", "", "ab", []string{"insert(0,[a b])"}},
		{"to empty", "ab", "", []string{"remove(0,2)"}},
		{"swap", "ab", "ba", []string{"move(1->0)"}},
		{"remove then move", "axbc", "cb", []string{"remove(0,2)", "move(1->0)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old, new := keys(tt.old), keys(tt.new)
			got, edits := replayKeyed(old, new)
			assert.True(t, slices.Equal(new, got), "got %v", got)

			var ops []string
			for _, e := range edits {
				ops = append(ops, e.String())
			}
			assert.Equal(t, tt.want, ops)
		})
	}
}

func TestKeyedValuesFollowNewOrder(t *testing.T) {
	old := []int{1, 2, 3}
	new := []int{3, 4, 1}
	rows := []string{"three", "four", "one"}

	edits := diff.Keyed(old, new, rows)
	got := diff.Apply([]string{"one", "two", "three"}, edits)
	assert.Equal(t, rows, got)
}

func TestKeyedPanicsOnValueMismatch(t *testing.T) {
	assert.Panics(t, func() {
		diff.Keyed([]int{1}, []int{1, 2}, []string{"x"})
	})
}

func randomKeys(r *rand.Rand, alphabet string) []string {
	n := r.Intn(14)
	out := make([]string, n)
	for i := range out {
		out[i] = string(alphabet[r.Intn(len(alphabet))])
	}
	return out
}

func TestKeyedRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		// small alphabets force duplicates, large ones force inserts
		alphabet := "abcdefghijklmnopqrstuvwxyz"[:2+r.Intn(24)]
		old, new := randomKeys(r, alphabet), randomKeys(r, alphabet)
		got, edits := replayKeyed(old, new)
		require.Equal(t, new, got, "old=%v new=%v edits=%v", old, new, edits)
	}
}

func TestKeyedRoundTripPermutations(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	base := keys("abcdefghijklmnop")
	for i := 0; i < 500; i++ {
		old := slices.Clone(base)
		new := slices.Clone(base)
		r.Shuffle(len(new), func(a, b int) { new[a], new[b] = new[b], new[a] })
		got, edits := replayKeyed(old, new)
		require.Equal(t, new, got)
		for _, e := range edits {
			require.Equal(t, diff.OpMove, e.Kind, "pure permutation produced %s", e)
		}
	}
}

func TestKeyedLargeReversal(t *testing.T) {
	old := make([]int, 10_000)
	for i := range old {
		old[i] = i
	}
	new := slices.Clone(old)
	slices.Reverse(new)

	start := time.Now()
	edits := diff.Keyed(old, new, new)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Len(t, edits, len(old)-1)
	assert.Equal(t, map[diff.OpKind]int{diff.OpMove: len(old) - 1}, diff.Count(edits))
	require.Equal(t, new, diff.Apply(slices.Clone(old), edits))
}

func TestKeyedReplacesAtBothEnds(t *testing.T) {
	edits := diff.Keyed(keys("xabcdy"), keys("qabcdz"), keys("qabcdz"))
	var ops []string
	for _, e := range edits {
		ops = append(ops, e.String())
	}
	assert.Equal(t, []string{"replace(0,q)", "replace(5,z)"}, ops)
}

func TestSequence(t *testing.T) {
	old, new := keys("abcabba"), keys("cbabac")
	edits := diff.Sequence(old, new)
	assert.Equal(t, new, diff.Apply(slices.Clone(old), edits))

	// the classic example needs five edit steps
	steps := 0
	for _, e := range edits {
		switch e.Kind {
		case diff.OpRemove:
			steps += e.Len
		case diff.OpInsert:
			steps += len(e.Values)
		default:
			t.Fatalf("unexpected %s", e)
		}
	}
	assert.Equal(t, 5, steps)

	assert.Empty(t, diff.Sequence(old, old))
	assert.Empty(t, diff.Sequence[string](nil, nil))
	assert.Equal(t, []diff.Edit[string]{{Kind: diff.OpInsert, Index: 0, Values: keys("xy")}}, diff.Sequence(nil, keys("xy")))
}

func TestSequenceRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 2000; i++ {
		old, new := randomKeys(r, "abcd"), randomKeys(r, "abcd")
		got := diff.Apply(slices.Clone(old), diff.Sequence(old, new))
		require.Equal(t, new, got, "old=%v new=%v", old, new)
	}
}

func TestSequenceLongInputFewEdits(t *testing.T) {
	old := make([]int, 5_000)
	for i := range old {
		old[i] = i
	}
	new := slices.Clone(old)
	new = slices.Delete(new, 100, 103)
	new = slices.Insert(new, 4_000, -1, -2)
	new[2_500] = -3

	edits := diff.Sequence(old, new)
	require.Equal(t, new, diff.Apply(slices.Clone(old), edits))
	steps := 0
	for _, e := range edits {
		steps += e.Len + len(e.Values)
	}
	assert.Equal(t, 7, steps)
}

func TestCount(t *testing.T) {
	edits := diff.Keyed(keys("abcd"), keys("dxb"), keys("dxb"))
	counts := diff.Count(edits)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(edits), total)
}
