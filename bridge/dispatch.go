package bridge

import "sync"

// Dispatcher marshals engine events onto the thread the hosting UI expects
// its callbacks on. The engine invokes observation callbacks from arbitrary
// goroutines; every wire-facing callback of a view funnels through its
// dispatcher so the host observes a single, ordered stream.
type Dispatcher interface {
	// Dispatch enqueues fn. Calls made after Close are dropped.
	Dispatch(fn func())
	// Close stops delivery. Anything enqueued but not yet started is
	// discarded; no new callback starts after Close returns.
	Close()
}

// serialDispatcher is the default: an unbounded FIFO drained by a single
// goroutine, which stands in for the UI thread.
type serialDispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
}

// NewSerialDispatcher returns a dispatcher backed by one drain goroutine.
func NewSerialDispatcher() Dispatcher {
	d := &serialDispatcher{}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

func (d *serialDispatcher) run() {
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if d.closed {
			d.queue = nil
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		fn()
	}
}

func (d *serialDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, fn)
	d.cond.Signal()
}

func (d *serialDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.cond.Broadcast()
}

// DirectDispatcher runs callbacks inline on the caller's goroutine. Useful
// for tests and tooling where everything already happens on one goroutine.
type DirectDispatcher struct {
	mu     sync.Mutex
	closed bool
}

func (d *DirectDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if !closed {
		fn()
	}
}

func (d *DirectDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}
