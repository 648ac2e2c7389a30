package reactive_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/delaneyj/signalgraph/uitree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paramStore map[reactive.ParamID]float64

func (p paramStore) ParameterValue(id reactive.ParamID) float64 {
	return p[id]
}

func TestBindTracksOnlyItsSource(t *testing.T) {
	rs := newSystem(t)
	const el reactive.ElementID = 3

	label := reactive.NewSignal(rs, "a")
	other := reactive.NewSignal(rs, 0)
	var seen []string
	b := reactive.Bind(rs.Element(el), label, func(ec *reactive.EffectContext, v string) error {
		other.Get(ec)
		seen = append(seen, v)
		return nil
	})
	assert.Equal(t, reactive.KindBinding, rs.Kind(b))
	assert.Equal(t, []reactive.NodeID{label.ID()}, rs.Sources(b))

	other.Set(rs, 1)
	label.Set(rs, "b")
	assert.Equal(t, []string{"a", "b"}, seen)

	rs.ElementDestroyed(el)
	label.Set(rs, "c")
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Empty(t, rs.Observers(label.ID()))
}

func TestBindToMemo(t *testing.T) {
	rs := newSystem(t)

	n := reactive.NewSignal(rs, 2)
	sq := reactive.NewMemo(rs, func(rc *reactive.ReadContext) int {
		v := n.Get(rc)
		return v * v
	})
	var seen []int
	reactive.Bind(rs.Element(1), sq, func(ec *reactive.EffectContext, v int) error {
		seen = append(seen, v)
		return nil
	})

	n.Set(rs, -2)
	n.Set(rs, 3)
	assert.Equal(t, []int{4, 9}, seen)
}

func TestParameterTracking(t *testing.T) {
	const cutoff reactive.ParamID = 1
	params := paramStore{cutoff: 0.5}
	rs := newSystem(t, reactive.WithParameters(params))

	calls := 0
	hz := reactive.NewMemo(rs, func(rc *reactive.ReadContext) float64 {
		calls++
		return 20 + rc.Parameter(cutoff)*1000
	})
	var seen []float64
	reactive.NewEffect(rs, func(ec *reactive.EffectContext) error {
		seen = append(seen, hz.Get(ec))
		return nil
	})
	assert.Equal(t, []reactive.NodeID{hz.ID()}, rs.ParameterObservers(cutoff))

	params[cutoff] = 1
	rs.NotifyParameterChanged(cutoff)
	assert.Equal(t, []float64{520, 1020}, seen)

	rs.NotifyParameterChanged(2)
	assert.Equal(t, 2, calls)
}

func TestStatusTrackingRespectsMask(t *testing.T) {
	tree := uitree.New()
	btn := tree.Create(tree.Root(), "button")
	rs := newSystem(t, reactive.WithStatusSource(tree))

	var seen []reactive.StatusFlags
	reactive.BindStatus(rs.Element(btn), btn, reactive.StatusHover, func(ec *reactive.EffectContext, s reactive.StatusFlags) error {
		seen = append(seen, s)
		return nil
	})
	disabled := reactive.NewMemo(rs.Element(btn), func(rc *reactive.ReadContext) bool {
		return rc.Status(btn, reactive.StatusDisabled) != 0
	})
	assert.False(t, disabled.Get(rs))
	assert.Len(t, rs.StatusObservers(btn), 2)

	rs.NotifyWidgetStatusChanged(btn, tree.SetStatus(btn, reactive.StatusFocus))
	assert.Equal(t, []reactive.StatusFlags{0}, seen)

	rs.NotifyWidgetStatusChanged(btn, tree.SetStatus(btn, reactive.StatusFocus|reactive.StatusHover))
	assert.Equal(t, []reactive.StatusFlags{0, reactive.StatusHover}, seen)

	rs.NotifyWidgetStatusChanged(btn, tree.SetStatus(btn, reactive.StatusHover|reactive.StatusDisabled))
	assert.Len(t, seen, 2)
	assert.True(t, disabled.Get(rs))

	rs.ElementDestroyed(btn)
	assert.Empty(t, rs.StatusObservers(btn))
}

func TestTrigger(t *testing.T) {
	rs := newSystem(t)

	tr := reactive.NewTrigger(rs)
	runs := 0
	reactive.NewEffect(rs, func(ec *reactive.EffectContext) error {
		runs++
		tr.Track(ec)
		return nil
	})

	tr.Fire(rs)
	rs.Batch(func() {
		tr.Fire(rs)
		tr.Fire(rs)
	})
	assert.Equal(t, 3, runs)
}

func TestEmitterHandlers(t *testing.T) {
	rs := newSystem(t)

	clicks := reactive.NewEmitter[string](rs)
	var got []string
	first := clicks.On(rs, func(ec *reactive.EffectContext, ev string) error {
		got = append(got, "first:"+ev)
		return nil
	})
	clicks.On(rs, func(ec *reactive.EffectContext, ev string) error {
		got = append(got, "second:"+ev)
		return nil
	})
	require.Len(t, clicks.Handlers(rs), 2)

	clicks.Emit(rs, "x")
	assert.Equal(t, []string{"first:x", "second:x"}, got)

	rs.Remove(first)
	clicks.Emit(rs, "y")
	assert.Equal(t, []string{"first:x", "second:x", "second:y"}, got)
	assert.Len(t, clicks.Handlers(rs), 1)
}

func TestQueuedEventsForRemovedHandlersAreDropped(t *testing.T) {
	rs := newSystem(t)

	clicks := reactive.NewEmitter[int](rs)
	calls := 0
	clicks.On(rs, func(ec *reactive.EffectContext, ev int) error {
		calls++
		return nil
	})

	rs.Batch(func() {
		clicks.Emit(rs, 1)
		assert.Equal(t, 1, rs.PendingTasks())
		rs.Remove(clicks.ID())
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, rs.Len())
}

func TestHandlersRunUntrackedAndDisposeTheirNodes(t *testing.T) {
	rs := newSystem(t)

	s := reactive.NewSignal(rs, 0)
	ev := reactive.NewEmitter[int](rs)
	calls := 0
	h := ev.On(rs, func(ec *reactive.EffectContext, n int) error {
		calls++
		s.Get(ec)
		reactive.NewSignal(ec, n)
		s.Set(ec, n)
		return nil
	})

	ev.Emit(rs, 1)
	ev.Emit(rs, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, s.Get(rs))
	assert.Empty(t, rs.Observers(s.ID()))
	assert.Len(t, rs.OwnedBy(reactive.OwnedByNode(h)), 1)
}

func TestHandlerErrorsGoToHandler(t *testing.T) {
	var got error
	rs := reactive.NewReactiveSystem(reactive.WithErrorHandler(func(id reactive.NodeID, err error) {
		got = err
	}))
	boom := errors.New("boom")
	ev := reactive.NewEmitter[struct{}](rs)
	ev.On(rs, func(ec *reactive.EffectContext, _ struct{}) error {
		return boom
	})

	ev.Emit(rs, struct{}{})
	assert.ErrorIs(t, got, boom)
}
