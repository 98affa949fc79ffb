package player

// Queue is a first-in first-out list of pending items.
// It is not safe for concurrent use; Session guards it with its lock.
type Queue[T any] struct {
	items []T
}

// Push appends an item at the tail.
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// PushFront puts an item back at the head, ahead of everything already queued.
func (q *Queue[T]) PushFront(item T) {
	q.items = append([]T{item}, q.items...)
}

// Pop removes and returns the head; ok is false when the queue is empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	if len(q.items) == 0 {
		return
	}
	item = q.items[0]

	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued items, head first.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
