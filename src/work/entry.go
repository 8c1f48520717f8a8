package work

import "tickq/src/datastructures"

type entryKind uint8

const (
	onceEntry entryKind = iota
	repeatEntry
	groupEntry // set, sub-queue or sub-bucket
)

// entry is a tagged variant over the shapes of work.
type entry struct {
	kind   entryKind
	once   func()
	repeat func() StopCondition

	// For groupEntry: the members, and the number of leaf closures below
	// them.
	members datastructures.CircularQueue[entry]
	units   int
}

func onceOf(f func()) entry {
	return entry{kind: onceEntry, once: f}
}

func repeatOf(f func() StopCondition) entry {
	return entry{kind: repeatEntry, repeat: f}
}

// groupOf takes the entries of members, leaving it empty.
func groupOf(members *datastructures.CircularQueue[entry], units int) entry {
	e := entry{kind: groupEntry, units: units}
	e.members.AppendFrom(members)
	return e
}

// size is the number of leaf closures the entry stands for.
func (e *entry) size() int {
	if e.kind == groupEntry {
		return e.units
	}
	return 1
}
