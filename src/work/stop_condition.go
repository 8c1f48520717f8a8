package work

// StopCondition is returned by a repeatable closure after each invocation.
type StopCondition int

const (
	// Stop discards the closure.
	Stop StopCondition = iota
	// KeepGoing keeps the closure, and everything pending alongside it, for a
	// later tick.
	KeepGoing
)

func (c StopCondition) String() string {
	switch c {
	case Stop:
		return "stop"
	case KeepGoing:
		return "keep_going"
	default:
		return "unknown"
	}
}
