package scheduler

import "tickq/src/work"

// Tick runs at most one closure and reports whether one ran.
//
// Everything queued on c is first moved to the back of bucket, then the
// front of bucket is run. Work queued while that closure runs is left for a
// later tick.
//
// When the closure returns work.KeepGoing, the whole of bucket, the closure
// included, is queued back on c as one slot behind anything queued in the
// meantime. Otherwise whatever is left in bucket stays there for the next
// call; callers should pass the same bucket again.
func (c *Context) Tick(bucket *work.Bucket) bool {
	c.withScheduler(func(s *Scheduler) {
		s.q.DrainInto(bucket)
	})

	verdict, ok := bucket.TryPopAndRun()
	switch {
	case !ok:
		c.ticked(Idle)
		return false
	case verdict == work.KeepGoing:
		c.requeue(bucket)
		c.ticked(KeptGoing)
		return true
	default:
		c.ticked(Stopped)
		return true
	}
}

// TickUntilEmpty ticks until there is nothing left to run.
//
// It does not return while some closure keeps returning work.KeepGoing.
func (c *Context) TickUntilEmpty() {
	var bucket work.Bucket
	for c.Tick(&bucket) {
	}
}

// TickN ticks at most n times and returns how many ticks ran a closure.
func (c *Context) TickN(bucket *work.Bucket, n int) (ran int) {
	for ran < n && c.Tick(bucket) {
		ran++
	}
	return
}

// requeue moves bucket back into the queue. Unlike ScheduleBucket it is not
// reported as newly scheduled work.
func (c *Context) requeue(bucket *work.Bucket) {
	c.withScheduler(func(s *Scheduler) {
		s.q.PushBucket(bucket)
	})
}

func (c *Context) ticked(result TickResult) {
	if c.observer != nil {
		c.observer.Ticked(result)
	}
}
