package scheduler

import "tickq/src/work"

// Schedule queues f to run once on a later tick.
func (c *Context) Schedule(f func()) {
	if f == nil {
		return
	}
	c.withScheduler(func(s *Scheduler) {
		s.q.PushFunc(f)
	})
	c.scheduled(1)
}

// ScheduleRepeat queues f to run on later ticks until it returns work.Stop.
//
// Each time f returns work.KeepGoing, other queued closures get a chance to
// run before f runs again.
func (c *Context) ScheduleRepeat(f func() work.StopCondition) {
	if f == nil {
		return
	}
	c.withScheduler(func(s *Scheduler) {
		s.q.PushRepeat(f)
	})
	c.scheduled(1)
}

// ScheduleSet queues the members of set as one slot. set is left empty.
func (c *Context) ScheduleSet(set *work.Set) {
	if set == nil {
		return
	}
	units := set.Len()
	c.withScheduler(func(s *Scheduler) {
		s.q.PushSet(set)
	})
	c.scheduled(units)
}

// ScheduleQueue queues q as one slot, keeping its order. q is left empty.
func (c *Context) ScheduleQueue(q *work.Queue) {
	if q == nil {
		return
	}
	units := q.Pending()
	c.withScheduler(func(s *Scheduler) {
		s.q.PushQueue(q)
	})
	c.scheduled(units)
}

// ScheduleBucket queues what is left in b as one slot, keeping its order. b
// is left empty.
func (c *Context) ScheduleBucket(b *work.Bucket) {
	if b == nil {
		return
	}
	units := b.Pending()
	c.withScheduler(func(s *Scheduler) {
		s.q.PushBucket(b)
	})
	c.scheduled(units)
}

func (c *Context) scheduled(units int) {
	if c.observer != nil && units > 0 {
		c.observer.Scheduled(units)
	}
}
