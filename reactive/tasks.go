package reactive

import "fmt"

// task refers to its node by id only. The id carries a generation, so a task
// whose node was removed (and maybe recycled) before the queue drained no
// longer resolves and is dropped.
type task struct {
	id      NodeID
	payload any
}

type taskQueue struct {
	items []task
	head  int
}

func (q *taskQueue) push(t task) {
	q.items = append(q.items, t)
}

func (q *taskQueue) pop() (task, bool) {
	if q.head >= len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return task{}, false
	}
	t := q.items[q.head]
	q.items[q.head] = task{}
	q.head++
	return t, true
}

func (q *taskQueue) len() int {
	return len(q.items) - q.head
}

// PendingTasks is the number of tasks waiting in the queue.
func (rs *ReactiveSystem) PendingTasks() int {
	return rs.tasks.len()
}

func (rs *ReactiveSystem) enqueueEffect(id NodeID, e *effectNode) {
	if e.queued {
		return
	}
	e.queued = true
	rs.tasks.push(task{id: id})
}

// drain runs queued tasks in FIFO order until the queue is empty. Tasks may
// enqueue more tasks. Re-entrant calls return at once; the outer loop picks up
// whatever they would have run.
func (rs *ReactiveSystem) drain() {
	if rs.draining {
		return
	}
	rs.draining = true
	defer func() { rs.draining = false }()

	for {
		rs.flushBoundaries()
		t, ok := rs.tasks.pop()
		if !ok {
			return
		}
		rs.runTask(t)
	}
}

func (rs *ReactiveSystem) runTask(t task) {
	s, ok := rs.arena.get(t.id)
	if !ok {
		rs.logger.Debug("dropping task for removed node", "node", t.id)
		return
	}
	switch v := s.v.(type) {
	case *effectNode:
		if !v.queued {
			return
		}
		if owner, oe, ok := rs.queuedOwner(s); ok {
			// re-running the owner disposes this effect
			rs.runEffect(owner, oe)
			return
		}
		rs.runEffect(t.id, v)
	case *handlerNode:
		rs.runHandler(t.id, v, t.payload)
	default:
		panic(fmt.Sprintf("reactive: task for %s which is a %s", t.id, s.v.kind()))
	}
}

// queuedOwner finds the outermost queued effect on the ownership chain of s.
func (rs *ReactiveSystem) queuedOwner(s *slot) (NodeID, *effectNode, bool) {
	var (
		found NodeID
		fe    *effectNode
	)
	for {
		n, ok := s.owner.Node()
		if !ok {
			break
		}
		if s, ok = rs.arena.get(n); !ok {
			break
		}
		if e, ok := s.v.(*effectNode); ok && e.queued {
			found, fe = n, e
		}
	}
	return found, fe, fe != nil
}

// runEffect re-runs an effect or binding. Its previous sources and owned
// nodes are dropped first; reads during fn become the new sources.
func (rs *ReactiveSystem) runEffect(id NodeID, e *effectNode) {
	e.queued = false
	rs.disposeOwned(id)
	rs.subs.clearSources(id)
	rs.arena.mustGet(id).state = Clean

	e.running = true
	defer func() { e.running = false }()

	ec := &EffectContext{ReadContext: ReadContext{rs: rs, id: id}}
	if e.binding {
		ec.untracked = true
	}
	if err := e.run(ec); err != nil {
		rs.onError(id, err)
	}
}

func (rs *ReactiveSystem) runHandler(id NodeID, h *handlerNode, payload any) {
	rs.disposeOwned(id)
	ec := &EffectContext{ReadContext: ReadContext{rs: rs, id: id}, untracked: true}
	if err := h.fn(ec, payload); err != nil {
		rs.onError(id, err)
	}
}
