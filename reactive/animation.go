package reactive

import (
	"fmt"
	"math"
	"slices"
	"time"
)

type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Motion describes how an animation approaches its target.
type Motion interface {
	step(m *motion, now time.Time) bool
}

// Tween interpolates from the value at retarget time to the target over
// Duration.
type Tween struct {
	Duration time.Duration
	Easing   Easing
}

// Spring is a damped spring toward the target. Zero fields take the defaults
// below.
type Spring struct {
	Stiffness float64
	Damping   float64
}

const (
	DefaultStiffness = 170
	DefaultDamping   = 26

	springStep    = 1.0 / 240
	springRest    = 1e-3
	springMaxStep = 0.25
)

type motion struct {
	spec     Motion
	value    float64
	from     float64
	target   float64
	velocity float64
	start    time.Time
	last     time.Time
	active   bool
}

func newMotion(spec Motion, value float64) *motion {
	if spec == nil {
		spec = Tween{}
	}
	return &motion{spec: spec, value: value, from: value, target: value}
}

func (m *motion) retarget(target float64, now time.Time) {
	m.from = m.value
	m.target = target
	m.start = now
	m.last = now
	m.active = m.value != target || m.velocity != 0
}

func (m *motion) jump(v float64) {
	m.value, m.from, m.target = v, v, v
	m.velocity = 0
	m.active = false
}

func (m *motion) advance(now time.Time) bool {
	if !m.active {
		return false
	}
	m.active = m.spec.step(m, now)
	return m.active
}

func (t Tween) step(m *motion, now time.Time) bool {
	if t.Duration <= 0 {
		m.value = m.target
		return false
	}
	p := float64(now.Sub(m.start)) / float64(t.Duration)
	if p >= 1 {
		m.value = m.target
		return false
	}
	if p < 0 {
		p = 0
	}
	ease := t.Easing
	if ease == nil {
		ease = Linear
	}
	m.value = m.from + (m.target-m.from)*ease(p)
	return true
}

func (s Spring) step(m *motion, now time.Time) bool {
	k, c := s.Stiffness, s.Damping
	if k <= 0 {
		k = DefaultStiffness
	}
	if c <= 0 {
		c = DefaultDamping
	}
	dt := now.Sub(m.last).Seconds()
	m.last = now
	if dt > springMaxStep {
		dt = springMaxStep
	}
	for dt > 0 {
		h := math.Min(dt, springStep)
		a := -k*(m.value-m.target) - c*m.velocity
		m.velocity += a * h
		m.value += m.velocity * h
		dt -= h
	}
	if math.Abs(m.velocity) < springRest && math.Abs(m.value-m.target) < springRest {
		m.value = m.target
		m.velocity = 0
		return false
	}
	return true
}

type Animation struct {
	id NodeID
}

func NewAnimation(cc Creator, initial float64, spec Motion) Animation {
	rs := cc.system()
	id := rs.create(&animationNode{motion: newMotion(spec, initial)}, cc.owner(), Clean)
	return Animation{id: id}
}

func (a Animation) ID() NodeID {
	return a.id
}

func (a Animation) Get(r Reader) float64 {
	return cast[float64](a.id, r.system().read(r.scope(), a.id))
}

// AnimateTo starts moving toward target from the current value. The value
// changes on the following Advance/Tick calls.
func (a Animation) AnimateTo(w Writer, target float64) {
	rs := w.system()
	_, n := mustVariant[*animationNode](rs, a.id)
	n.motion.retarget(target, rs.now())
	if n.motion.active {
		rs.schedule(a.id)
	}
}

// Jump sets the value immediately and stops any motion.
func (a Animation) Jump(w Writer, v float64) {
	rs := w.system()
	_, n := mustVariant[*animationNode](rs, a.id)
	n.motion.jump(v)
	rs.unschedule(a.id)
	rs.notify(a.id)
	rs.afterWrite()
}

// DerivedAnimation animates toward a target computed from other nodes. When
// a source changes the target is recomputed and motion restarts only if the
// target moved.
type DerivedAnimation struct {
	id NodeID
}

func NewDerivedAnimation(cc Creator, spec Motion, target func(rc *ReadContext) float64) DerivedAnimation {
	rs := cc.system()
	d := &derivedAnimationNode{motion: newMotion(spec, 0), target: target}
	id := rs.create(d, cc.owner(), Dirty)
	rs.resetDerived(id, d)
	return DerivedAnimation{id: id}
}

func (d DerivedAnimation) ID() NodeID {
	return d.id
}

func (d DerivedAnimation) Get(r Reader) float64 {
	return cast[float64](d.id, r.system().read(r.scope(), d.id))
}

// resetDerived is the evaluation rule for a Dirty derived animation. The first
// evaluation jumps straight to the target.
func (rs *ReactiveSystem) resetDerived(id NodeID, d *derivedAnimationNode) {
	var target float64
	rs.compute(id, d, func(rc *ReadContext) {
		target = d.target(rc)
	})
	rs.arena.mustGet(id).state = Clean
	if !d.started {
		d.started = true
		d.motion.jump(target)
		return
	}
	if target == d.motion.target {
		return
	}
	d.motion.retarget(target, rs.now())
	if d.motion.active {
		rs.schedule(id)
	}
}

func (rs *ReactiveSystem) schedule(id NodeID) {
	if rs.pendingAnimationSet.Add(id) {
		rs.pendingAnimations = append(rs.pendingAnimations, id)
	}
}

func (rs *ReactiveSystem) unschedule(id NodeID) {
	if rs.pendingAnimationSet.Contains(id) {
		rs.pendingAnimationSet.Remove(id)
		rs.pendingAnimations = without(rs.pendingAnimations, id)
	}
}

// PendingAnimations lists the animations the driver should advance on the
// next frame.
func (rs *ReactiveSystem) PendingAnimations() []NodeID {
	return slices.Clone(rs.pendingAnimations)
}

// Advance steps one animation to now, invalidates its observers if the value
// moved and reports whether it is still in motion. Finished or removed
// animations drop out of the pending set.
func (rs *ReactiveSystem) Advance(id NodeID, now time.Time) bool {
	s, ok := rs.arena.get(id)
	if !ok {
		rs.unschedule(id)
		return false
	}
	var m *motion
	switch v := s.v.(type) {
	case *animationNode:
		m = v.motion
	case *derivedAnimationNode:
		m = v.motion
	default:
		panic(fmt.Sprintf("reactive: cannot advance %s, it is a %s", id, s.v.kind()))
	}

	before := m.value
	moving := m.advance(now)
	if !moving {
		rs.unschedule(id)
	}
	if m.value != before {
		rs.notify(id)
	}
	rs.afterWrite()
	return moving
}

// Tick advances every pending animation in one batch and returns how many are
// still moving.
func (rs *ReactiveSystem) Tick(now time.Time) int {
	rs.StartBatch()
	defer rs.EndBatch()
	moving := 0
	for _, id := range slices.Clone(rs.pendingAnimations) {
		if rs.Advance(id, now) {
			moving++
		}
	}
	return moving
}
