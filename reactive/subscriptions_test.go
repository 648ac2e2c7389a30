package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackRejectsLeafScopes(t *testing.T) {
	rs := NewReactiveSystem()
	src := NewSignal(rs, 0)

	leaves := map[string]NodeID{
		"signal":  NewSignal(rs, 0).ID(),
		"trigger": NewTrigger(rs).ID(),
	}
	for name, leaf := range leaves {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { rs.track(src.ID(), leaf) })
			assert.Empty(t, rs.Sources(leaf))
			assert.Empty(t, rs.Observers(src.ID()))
		})
	}

	m := NewMemo(rs, func(rc *ReadContext) int { return 0 })
	rs.track(src.ID(), m.ID())
	assert.Equal(t, []NodeID{src.ID()}, rs.Sources(m.ID()))
	assert.Equal(t, []NodeID{m.ID()}, rs.Observers(src.ID()))
}

func TestTrackSelfIsACycle(t *testing.T) {
	rs := NewReactiveSystem()
	m := NewMemo(rs, func(rc *ReadContext) int { return 0 })
	assert.Panics(t, func() { rs.track(m.ID(), m.ID()) })
}
