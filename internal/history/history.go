// Package history keeps bounded undo stacks for navigation operations.
package history

// Stack is a bounded history of snapshots with a rewind pointer.
//
// Push records a snapshot, evicting the oldest one once the stack is full,
// and moves the rewind pointer back to the top. Undo walks the pointer
// backwards without removing anything, so the same snapshots stay available
// until newer pushes evict them. Once the pointer reaches the oldest retained
// snapshot, further undos keep returning it.
type Stack[T any] struct {
	items    []T
	rewind   int // index of the next snapshot Undo returns, len(items) when at the top
	capacity int
}

// NewStack creates a stack holding at most capacity snapshots.
// A capacity of 0 or less disables the history.
func NewStack[T any](capacity int) *Stack[T] {
	if capacity < 0 {
		capacity = 0 // Ensure capacity is not negative
	}
	return &Stack[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push records a new snapshot and resets the rewind pointer to the top.
func (s *Stack[T]) Push(item T) {
	if s.capacity == 0 {
		return
	}
	s.items = append(s.items, item)
	// Trim history if it exceeds capacity (remove from the beginning)
	if len(s.items) > s.capacity {
		s.items = s.items[len(s.items)-s.capacity:]
	}
	s.rewind = len(s.items)
}

// Undo returns the snapshot under the rewind pointer and steps the pointer
// one further into the past. ok is false only when the stack is empty.
func (s *Stack[T]) Undo() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	if s.rewind > 0 {
		s.rewind--
	}
	return s.items[s.rewind], true
}

// Len returns the number of retained snapshots.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Cap returns the maximum number of retained snapshots.
func (s *Stack[T]) Cap() int {
	return s.capacity
}

// Remaining returns how many distinct snapshots Undo can still reach.
func (s *Stack[T]) Remaining() int {
	return s.rewind
}

// Clear drops every snapshot.
func (s *Stack[T]) Clear() {
	s.items = make([]T, 0, s.capacity)
	s.rewind = 0
}
