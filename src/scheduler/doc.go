// Package scheduler is a cooperative, single-owner task scheduler.
//
// Work is queued without blocking through the Schedule* methods of a Context
// and is drained one closure per call to Tick. A repeatable closure that
// returns work.KeepGoing yields after every invocation: the batch it belongs
// to goes back to the end of the queue, so work scheduled after it gets a
// turn before it runs again.
//
// A Context is confined to the goroutine that owns it. There are no locks
// here; use package task to feed a Context from other goroutines.
//
// Usage:
//
//	ctx := scheduler.NewContext()
//	ctx.Schedule(func() { fmt.Println("once") })
//	ctx.ScheduleRepeat(func() work.StopCondition {
//		if step() {
//			return work.KeepGoing
//		}
//		return work.Stop
//	})
//
//	var bucket work.Bucket
//	for ctx.Tick(&bucket) {
//	}
package scheduler
