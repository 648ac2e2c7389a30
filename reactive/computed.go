package reactive

// Memo is a lazily recomputed derived value. It recomputes only when read
// (or when an effect downstream forces it) and only if a source changed.
type Memo[T any] struct {
	id NodeID
}

// NewMemo creates a memo whose observers are skipped when the recomputed
// value is == to the previous one.
func NewMemo[T comparable](cc Creator, fn func(rc *ReadContext) T) Memo[T] {
	return NewMemoFunc(cc, fn, func(a, b T) bool { return a == b })
}

// NewMemoFunc creates a memo with a custom equality. A nil equal treats every
// recomputation as a change.
func NewMemoFunc[T any](cc Creator, fn func(rc *ReadContext) T, equal func(a, b T) bool) Memo[T] {
	rs := cc.system()
	m := &memoNode{
		compute: func(rc *ReadContext) any { return fn(rc) },
		equal:   func(a, b any) bool { return false },
	}
	id := rs.create(m, cc.owner(), Dirty)
	if equal != nil {
		m.equal = func(a, b any) bool {
			return equal(cast[T](id, a), cast[T](id, b))
		}
	}
	return Memo[T]{id: id}
}

func (m Memo[T]) ID() NodeID {
	return m.id
}

func (m Memo[T]) Get(r Reader) T {
	return cast[T](m.id, r.system().read(r.scope(), m.id))
}
