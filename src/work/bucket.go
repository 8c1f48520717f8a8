package work

import "tickq/src/datastructures"

// Bucket is the working set of a tick. It is filled from a Queue and drained
// one closure at a time.
//
// A Bucket is owned by the caller and can be reused across ticks. The zero
// value is an empty bucket.
type Bucket struct {
	entries datastructures.CircularQueue[entry]
	units   int
}

// FillFrom moves the whole of q to the back of b.
func (b *Bucket) FillFrom(q *Queue) {
	q.DrainInto(b)
}

// TryPopAndRun runs the first closure in b.
//
// Aggregates found at the front are expanded in place first. ok is false if
// b held nothing to run. A repeatable closure that returns KeepGoing is put
// back at the end of b before returning, behind everything that was pending
// alongside it. A closure that panics is dropped.
func (b *Bucket) TryPopAndRun() (verdict StopCondition, ok bool) {
	for {
		e, found := b.entries.Dequeue()
		if !found {
			return Stop, false
		}

		switch e.kind {
		case groupEntry:
			b.expand(&e)
		case onceEntry:
			b.units--
			e.once()
			return Stop, true
		case repeatEntry:
			b.units--
			verdict = e.repeat()
			if verdict == KeepGoing {
				b.entries.Enqueue(e)
				b.units++
			}
			return verdict, true
		}
	}
}

// Len returns the number of top-level slots.
func (b *Bucket) Len() int {
	return b.entries.Len()
}

// Pending returns the number of closures left in b, counting the members of
// aggregates.
func (b *Bucket) Pending() int {
	return b.units
}

func (b *Bucket) IsEmpty() bool {
	return b.units == 0
}

// expand puts the members of a group at the front of b, in order.
func (b *Bucket) expand(group *entry) {
	members := make([]entry, 0, group.members.Len())
	for {
		m, ok := group.members.Dequeue()
		if !ok {
			break
		}
		members = append(members, m)
	}
	for i := len(members) - 1; i >= 0; i-- {
		b.entries.PushFront(members[i])
	}
}
