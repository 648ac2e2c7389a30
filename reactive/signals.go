package reactive

// Readable is implemented by every node handle that holds a value.
type Readable[T any] interface {
	ID() NodeID
	Get(r Reader) T
}

type Signal[T any] struct {
	id NodeID
}

func NewSignal[T any](cc Creator, value T) Signal[T] {
	rs := cc.system()
	id := rs.create(&signalNode{value: value}, cc.owner(), Clean)
	return Signal[T]{id: id}
}

func (s Signal[T]) ID() NodeID {
	return s.id
}

func (s Signal[T]) Get(r Reader) T {
	return cast[T](s.id, r.system().read(r.scope(), s.id))
}

// Set replaces the value and invalidates every observer.
func (s Signal[T]) Set(w Writer, value T) {
	rs := w.system()
	_, n := mustVariant[*signalNode](rs, s.id)
	n.value = value
	rs.notify(s.id)
	rs.afterWrite()
}

// Update mutates the value in place and invalidates every observer.
func (s Signal[T]) Update(w Writer, fn func(value *T)) {
	rs := w.system()
	_, n := mustVariant[*signalNode](rs, s.id)
	v := cast[T](s.id, n.value)
	fn(&v)
	n.value = v
	rs.notify(s.id)
	rs.afterWrite()
}

// Trigger is a valueless node used only to create a dependency.
type Trigger struct {
	id NodeID
}

func NewTrigger(cc Creator) Trigger {
	rs := cc.system()
	return Trigger{id: rs.create(&triggerNode{}, cc.owner(), Clean)}
}

func (t Trigger) ID() NodeID {
	return t.id
}

func (t Trigger) Track(r Reader) {
	r.system().read(r.scope(), t.id)
}

func (t Trigger) Fire(w Writer) {
	rs := w.system()
	mustVariant[*triggerNode](rs, t.id)
	rs.notify(t.id)
	rs.afterWrite()
}
