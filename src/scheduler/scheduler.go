package scheduler

import "tickq/src/work"

// Scheduler holds the pending work of one Context.
type Scheduler struct {
	q work.Queue
}

func newScheduler() *Scheduler {
	return &Scheduler{}
}

// Context is the owner of one Scheduler.
//
// The Scheduler is created on first use and lives as long as the Context.
// The zero value is ready to use. A Context must not be shared between
// goroutines.
type Context struct {
	slot     *Scheduler
	borrowed bool
	observer Observer
}

// Create a new context. Its Scheduler is created lazily.
func NewContext() *Context {
	return &Context{}
}

// SetObserver installs o to receive scheduling events. A nil o disables
// them.
func (c *Context) SetObserver(o Observer) {
	c.observer = o
}

// Pending returns the number of closures waiting in the Scheduler. Work
// already moved into a caller's bucket is not counted.
func (c *Context) Pending() (n int) {
	c.withScheduler(func(s *Scheduler) {
		n = s.q.Pending()
	})
	return
}

// withScheduler runs op with exclusive access to the Scheduler of c.
//
// The Scheduler is taken out of the slot for the duration of op and put back
// afterwards, also when op panics. op must only touch the queue: if it ran a
// task body that scheduled more work on c, that work would be pushed to a
// second, fresh Scheduler and lost when the first one is put back. Such a
// nested call panics instead.
func (c *Context) withScheduler(op func(s *Scheduler)) {
	if c.borrowed {
		panic("scheduler: re-entrant access to the context scheduler")
	}

	s := c.slot
	c.slot = nil
	if s == nil {
		s = newScheduler()
	}

	c.borrowed = true
	defer func() {
		c.borrowed = false
		c.slot = s
	}()

	op(s)
}
