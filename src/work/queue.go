package work

import "tickq/src/datastructures"

// Queue is an ordered sequence of closures and aggregates.
//
// Every push appends exactly one slot, so the relative order of pushes is
// preserved. The zero value is an empty queue.
type Queue struct {
	entries datastructures.CircularQueue[entry]
	units   int
}

// PushFunc appends a closure that runs once. A nil f is ignored.
func (q *Queue) PushFunc(f func()) {
	if f == nil {
		return
	}
	q.push(onceOf(f))
}

// PushRepeat appends a closure that runs until it returns Stop. A nil f is
// ignored.
func (q *Queue) PushRepeat(f func() StopCondition) {
	if f == nil {
		return
	}
	q.push(repeatOf(f))
}

// PushSet moves the members of s into a single slot. s is left empty.
func (q *Queue) PushSet(s *Set) {
	if s == nil || s.units == 0 {
		return
	}
	q.push(groupOf(&s.entries, s.units))
	s.units = 0
}

// PushQueue moves other into a single slot, keeping its order. other is
// left empty.
func (q *Queue) PushQueue(other *Queue) {
	if other == nil || other == q || other.units == 0 {
		return
	}
	q.push(groupOf(&other.entries, other.units))
	other.units = 0
}

// PushBucket moves what is left in b into a single slot, keeping its order.
// b is left empty.
func (q *Queue) PushBucket(b *Bucket) {
	if b == nil || b.units == 0 {
		return
	}
	q.push(groupOf(&b.entries, b.units))
	b.units = 0
}

// DrainInto moves every slot to the back of b, leaving q empty.
func (q *Queue) DrainInto(b *Bucket) {
	b.entries.AppendFrom(&q.entries)
	b.units += q.units
	q.units = 0
}

// Len returns the number of top-level slots.
func (q *Queue) Len() int {
	return q.entries.Len()
}

// Pending returns the number of closures waiting in q, counting the members
// of aggregates.
func (q *Queue) Pending() int {
	return q.units
}

func (q *Queue) IsEmpty() bool {
	return q.units == 0
}

func (q *Queue) push(e entry) {
	q.units += e.size()
	q.entries.Enqueue(e)
}
