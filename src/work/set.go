package work

import "tickq/src/datastructures"

// Set is a batch of closures with no ordering promise among its members.
// Pushed into a Queue, the whole set takes one slot.
type Set struct {
	entries datastructures.CircularQueue[entry]
	units   int
}

// Add a closure that runs once. A nil f is ignored.
func (s *Set) Add(f func()) {
	if f == nil {
		return
	}
	s.entries.Enqueue(onceOf(f))
	s.units++
}

// Add a closure that runs until it returns Stop. A nil f is ignored.
func (s *Set) AddRepeat(f func() StopCondition) {
	if f == nil {
		return
	}
	s.entries.Enqueue(repeatOf(f))
	s.units++
}

func (s *Set) Len() int {
	return s.units
}
