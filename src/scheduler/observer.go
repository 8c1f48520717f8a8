package scheduler

// TickResult is the outcome of one Tick.
type TickResult int

const (
	// Idle means there was nothing to run.
	Idle TickResult = iota
	// Stopped means a closure ran and is done.
	Stopped
	// KeptGoing means a closure ran and asked to run again.
	KeptGoing
)

func (r TickResult) String() string {
	switch r {
	case Idle:
		return "idle"
	case Stopped:
		return "stop"
	case KeptGoing:
		return "keep_going"
	default:
		return "unknown"
	}
}

// Observer receives scheduling events from a Context.
//
// Calls are made on the goroutine owning the Context and must not schedule
// work on it.
type Observer interface {
	// Scheduled is called after units closures were queued.
	Scheduled(units int)
	// Ticked is called at the end of every Tick.
	Ticked(result TickResult)
}
