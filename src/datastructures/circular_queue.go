package datastructures

const minCapacity = 8

// A growable circular queue.
//
// The zero value is an empty queue ready to use. Not thread-safe.
type CircularQueue[T any] struct {
	buffer []T
	head   int
	len    int
}

// Create a new circular queue with room for capacity items before it grows.
func NewCircularQueue[T any](capacity int) CircularQueue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return CircularQueue[T]{
		buffer: make([]T, capacity),
	}
}

// Append an item at the back.
func (q *CircularQueue[T]) Enqueue(item T) {
	q.grow()

	tail := (q.head + q.len) % len(q.buffer)
	q.buffer[tail] = item

	q.len++
}

// Insert an item at the front, so that it is the next one dequeued.
func (q *CircularQueue[T]) PushFront(item T) {
	q.grow()

	q.head = (q.head - 1 + len(q.buffer)) % len(q.buffer)
	q.buffer[q.head] = item

	q.len++
}

func (q *CircularQueue[T]) Dequeue() (val T, ok bool) {
	if q.len == 0 {
		ok = false
		return
	}

	var zero T
	val = q.buffer[q.head]
	q.buffer[q.head] = zero // release the reference
	ok = true

	q.head = (q.head + 1) % len(q.buffer)
	q.len--

	return
}

// Move every item of other to the back of q, leaving other empty.
//
// When q is empty the buffers are swapped instead of copied.
func (q *CircularQueue[T]) AppendFrom(other *CircularQueue[T]) {
	if other == q || other.len == 0 {
		return
	}
	if q.len == 0 {
		q.buffer, other.buffer = other.buffer, q.buffer
		q.head, other.head = other.head, 0
		q.len, other.len = other.len, 0
		return
	}
	for {
		item, ok := other.Dequeue()
		if !ok {
			return
		}
		q.Enqueue(item)
	}
}

// Call fn for each item from front to back without removing them.
func (q *CircularQueue[T]) Each(fn func(item T)) {
	for i := 0; i < q.len; i++ {
		fn(q.buffer[(q.head+i)%len(q.buffer)])
	}
}

func (q *CircularQueue[T]) Len() int {
	return q.len
}

func (q *CircularQueue[T]) IsEmpty() bool {
	return q.len == 0
}

// Make room for one more item, doubling the buffer when full.
func (q *CircularQueue[T]) grow() {
	if q.len < len(q.buffer) {
		return
	}

	size := len(q.buffer) * 2
	if size < minCapacity {
		size = minCapacity
	}

	buffer := make([]T, size)
	for i := 0; i < q.len; i++ {
		buffer[i] = q.buffer[(q.head+i)%len(q.buffer)]
	}
	q.buffer = buffer
	q.head = 0
}
