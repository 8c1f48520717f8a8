package work_test

import (
	"testing"
	"tickq/src/work"

	"github.com/stretchr/testify/assert"
)

func record(trace *[]string, name string) func() {
	return func() { *trace = append(*trace, name) }
}

// drain runs b until it is empty and returns the verdicts observed.
func drain(b *work.Bucket) []work.StopCondition {
	var verdicts []work.StopCondition
	for {
		v, ok := b.TryPopAndRun()
		if !ok {
			return verdicts
		}
		verdicts = append(verdicts, v)
	}
}

// Test if an empty bucket reports that nothing ran.
func TestBucket_Empty(t *testing.T) {
	var b work.Bucket

	_, ok := b.TryPopAndRun()
	assert.False(t, ok)
	assert.True(t, b.IsEmpty())
}

// Test if a filled bucket runs closures in queue order.
func TestBucket_FillFromKeepsOrder(t *testing.T) {
	var trace []string
	var q work.Queue
	var b work.Bucket

	q.PushFunc(record(&trace, "a"))
	q.PushFunc(record(&trace, "b"))
	b.FillFrom(&q)

	assert.True(t, q.IsEmpty())
	assert.Equal(t, 2, b.Pending())

	q.PushFunc(record(&trace, "c"))
	q.DrainInto(&b)

	assert.Equal(t, []work.StopCondition{work.Stop, work.Stop, work.Stop}, drain(&b))
	assert.Equal(t, []string{"a", "b", "c"}, trace)
	assert.Equal(t, 0, b.Pending())
}

// Test if nil closures and empty aggregates take no slot.
func TestQueue_IgnoresNothing(t *testing.T) {
	var q work.Queue

	q.PushFunc(nil)
	q.PushRepeat(nil)
	q.PushSet(&work.Set{})
	q.PushSet(nil)
	q.PushQueue(&work.Queue{})
	q.PushBucket(&work.Bucket{})

	assert.Equal(t, 0, q.Len())
	assert.True(t, q.IsEmpty())
}

// Test if pushing an aggregate moves its contents into one slot.
func TestQueue_AggregatesTakeOneSlot(t *testing.T) {
	var trace []string
	var q, sub work.Queue
	var s work.Set

	sub.PushFunc(record(&trace, "sub1"))
	sub.PushFunc(record(&trace, "sub2"))
	s.Add(record(&trace, "set1"))
	s.Add(record(&trace, "set2"))

	q.PushFunc(record(&trace, "first"))
	q.PushQueue(&sub)
	q.PushSet(&s)
	q.PushFunc(record(&trace, "last"))

	assert.Equal(t, 4, q.Len())
	assert.Equal(t, 6, q.Pending())
	assert.True(t, sub.IsEmpty())
	assert.Equal(t, 0, s.Len())

	var b work.Bucket
	b.FillFrom(&q)
	drain(&b)

	assert.Equal(t, "first", trace[0])
	assert.Equal(t, []string{"sub1", "sub2"}, trace[1:3])
	assert.ElementsMatch(t, []string{"set1", "set2"}, trace[3:5])
	assert.Equal(t, "last", trace[5])
}

// Test if a queue cannot be pushed into itself.
func TestQueue_PushSelf(t *testing.T) {
	var q work.Queue
	q.PushFunc(func() {})

	q.PushQueue(&q)

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, q.Pending())
}

// Test if nested aggregates keep their internal order.
func TestBucket_NestedAggregates(t *testing.T) {
	var trace []string
	var inner, outer, q work.Queue

	inner.PushFunc(record(&trace, "2"))
	inner.PushFunc(record(&trace, "3"))
	outer.PushFunc(record(&trace, "1"))
	outer.PushQueue(&inner)
	outer.PushFunc(record(&trace, "4"))
	q.PushQueue(&outer)
	q.PushFunc(record(&trace, "5"))

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 5, q.Pending())

	var b work.Bucket
	b.FillFrom(&q)
	assert.Len(t, drain(&b), 5)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, trace)
}

// Test if a KeepGoing closure goes behind the rest of its bucket.
func TestBucket_KeepGoingGoesToBack(t *testing.T) {
	var trace []string
	var q work.Queue
	left := 2

	q.PushRepeat(func() work.StopCondition {
		trace = append(trace, "r")
		left--
		if left > 0 {
			return work.KeepGoing
		}
		return work.Stop
	})
	q.PushFunc(record(&trace, "x"))
	q.PushFunc(record(&trace, "y"))

	var b work.Bucket
	b.FillFrom(&q)

	v, ok := b.TryPopAndRun()
	assert.True(t, ok)
	assert.Equal(t, work.KeepGoing, v)
	assert.Equal(t, 3, b.Pending())

	assert.Equal(t, []work.StopCondition{work.Stop, work.Stop, work.Stop}, drain(&b))
	assert.Equal(t, []string{"r", "x", "y", "r"}, trace)
}

// Test if pushing a bucket empties it and keeps what was left in order.
func TestQueue_PushBucket(t *testing.T) {
	var trace []string
	var q work.Queue
	var b work.Bucket

	q.PushFunc(record(&trace, "a"))
	q.PushFunc(record(&trace, "b"))
	q.PushFunc(record(&trace, "c"))
	b.FillFrom(&q)
	b.TryPopAndRun()

	q.PushBucket(&b)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 2, q.Pending())

	b.FillFrom(&q)
	drain(&b)
	assert.Equal(t, []string{"a", "b", "c"}, trace)
}

// Test if a panicking closure is dropped and the bucket stays usable.
func TestBucket_Panic(t *testing.T) {
	var trace []string
	var q work.Queue
	q.PushFunc(func() { panic("boom") })
	q.PushFunc(record(&trace, "after"))

	var b work.Bucket
	b.FillFrom(&q)

	assert.Panics(t, func() { b.TryPopAndRun() })
	assert.Equal(t, 1, b.Pending())

	drain(&b)
	assert.Equal(t, []string{"after"}, trace)
}

func TestStopCondition_String(t *testing.T) {
	assert.Equal(t, "stop", work.Stop.String())
	assert.Equal(t, "keep_going", work.KeepGoing.String())
	assert.Equal(t, "unknown", work.StopCondition(7).String())
}
