package placement

import "sync"

// outbox delivers collaborator callbacks in the order they were queued.
//
// Callers push while holding the lifecycle mutex, so queue order is state
// change order, and flush after releasing it. Only one goroutine flushes at
// a time: a callback that re-enters the lifecycle just queues, and the
// goroutine already flushing delivers it next.
type outbox struct {
	mu       sync.Mutex
	pending  []func()
	flushing bool
}

func (o *outbox) push(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, fn)
}

func (o *outbox) flush() {
	o.mu.Lock()
	if o.flushing {
		o.mu.Unlock()
		return
	}
	o.flushing = true
	for len(o.pending) > 0 {
		fn := o.pending[0]
		o.pending[0] = nil
		o.pending = o.pending[1:]
		o.mu.Unlock()
		fn()
		o.mu.Lock()
	}
	o.pending = nil
	o.flushing = false
	o.mu.Unlock()
}
