package reactive

import "fmt"

type ErrFn func(ec *EffectContext) error

// NewEffect creates an effect and runs it once right away. Later runs happen
// only from the task queue, after the write that invalidated it returns.
func NewEffect(cc Creator, fn ErrFn) NodeID {
	rs := cc.system()
	e := &effectNode{run: fn}
	id := rs.create(e, cc.owner(), Dirty)
	rs.runFirst(id, e)
	return id
}

func (rs *ReactiveSystem) runFirst(id NodeID, e *effectNode) {
	rs.StartBatch()
	defer rs.EndBatch()
	rs.runEffect(id, e)
}

func newBinding(cc Creator, run ErrFn) NodeID {
	if _, ok := cc.owner().Element(); !ok {
		panic(fmt.Sprintf("reactive: bindings must be owned by an element, got owner %s", cc.owner()))
	}
	rs := cc.system()
	e := &effectNode{binding: true, run: run}
	id := rs.create(e, cc.owner(), Dirty)
	rs.runFirst(id, e)
	return id
}

// Bind runs fn whenever src changes. The binding tracks src and nothing else:
// reads made by fn through its context are untracked.
func Bind[T any](cc Creator, src Readable[T], fn func(ec *EffectContext, value T) error) NodeID {
	return newBinding(cc, func(ec *EffectContext) error {
		v := cast[T](src.ID(), ec.rs.read(ec.id, src.ID()))
		return fn(ec, v)
	})
}

// BindParameter runs fn with the parameter value whenever the host reports a
// change.
func BindParameter(cc Creator, param ParamID, fn func(ec *EffectContext, value float64) error) NodeID {
	return newBinding(cc, func(ec *EffectContext) error {
		if ec.rs.params == nil {
			panic("reactive: no parameter store configured")
		}
		ec.rs.TrackParameter(param, ec.id)
		return fn(ec, ec.rs.params.ParameterValue(param))
	})
}

// BindStatus runs fn with the masked status bits of el whenever one of them
// flips.
func BindStatus(cc Creator, el ElementID, mask StatusFlags, fn func(ec *EffectContext, status StatusFlags) error) NodeID {
	return newBinding(cc, func(ec *EffectContext) error {
		if ec.rs.status == nil {
			panic("reactive: no status source configured")
		}
		ec.rs.TrackWidgetStatus(el, mask, ec.id)
		return fn(ec, ec.rs.status.Status(el)&mask)
	})
}
