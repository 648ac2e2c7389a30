package reactive

// Emitter is a one-shot fan-out channel. Emitting does not touch the
// Clean/Check/Dirty states; it queues one task per handler.
type Emitter[T any] struct {
	id NodeID
}

func NewEmitter[T any](cc Creator) Emitter[T] {
	rs := cc.system()
	return Emitter[T]{id: rs.create(&emitterNode{}, cc.owner(), Clean)}
}

func (e Emitter[T]) ID() NodeID {
	return e.id
}

// On registers fn as a handler node owned by cc. Removing the handler, its
// owner or the emitter stops delivery, including for events already queued.
func (e Emitter[T]) On(cc Creator, fn func(ec *EffectContext, ev T) error) NodeID {
	rs := cc.system()
	_, em := mustVariant[*emitterNode](rs, e.id)
	h := &handlerNode{
		emitter: e.id,
		fn: func(ec *EffectContext, ev any) error {
			return fn(ec, cast[T](e.id, ev))
		},
	}
	id := rs.create(h, cc.owner(), Clean)
	em.handlers = append(em.handlers, id)
	return id
}

func (e Emitter[T]) Emit(w Writer, ev T) {
	rs := w.system()
	_, em := mustVariant[*emitterNode](rs, e.id)
	for _, h := range em.handlers {
		rs.tasks.push(task{id: h, payload: ev})
	}
	rs.afterWrite()
}

// Handlers lists the live handler nodes of the emitter.
func (e Emitter[T]) Handlers(r Reader) []NodeID {
	_, em := mustVariant[*emitterNode](r.system(), e.id)
	return append([]NodeID(nil), em.handlers...)
}

func (rs *ReactiveSystem) emitter(id NodeID) (*slot, *emitterNode, bool) {
	s, ok := rs.arena.get(id)
	if !ok {
		return nil, nil, false
	}
	em, ok := s.v.(*emitterNode)
	return s, em, ok
}
