// Package freelist provides a lock-free LIFO stack used as the pool's
// free-slot registry.
//
// # Concurrency Model
//
// Push and TryPop are safe under arbitrary concurrent use and never block.
// TryPop may report empty while a concurrent Push is in flight; callers must
// treat empty as "maybe empty" and fall back to their growth path.
//
// Nodes are fresh heap allocations and are never recycled. A node popped by
// one goroutine stays reachable until the garbage collector proves no other
// goroutine still holds it, which rules out the ABA hazard that classic
// Treiber stacks need tagged pointers for.
package freelist

import (
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is a concurrent LIFO set of values. The zero value is an empty stack
// ready for use.
//
// No ordering is guaranteed beyond "some previously pushed value": the pool
// only needs slot reuse, not reuse order.
type Stack[T any] struct {
	head atomic.Pointer[node[T]]
	size atomic.Int64
}

// Push adds v to the stack. It always succeeds and never blocks.
func (s *Stack[T]) Push(v T) {
	n := &node[T]{value: v}
	for {
		old := s.head.Load()
		n.next = old
		if s.head.CompareAndSwap(old, n) {
			s.size.Add(1)
			return
		}
	}
}

// TryPop removes and returns a value from the stack. It returns false when
// the stack appears empty; under contention this can race with an in-flight
// Push, so false means "retry or grow", not permanent exhaustion.
func (s *Stack[T]) TryPop() (T, bool) {
	for {
		old := s.head.Load()
		if old == nil {
			var zero T
			return zero, false
		}
		if s.head.CompareAndSwap(old, old.next) {
			s.size.Add(-1)
			return old.value, true
		}
	}
}

// Reset empties the stack, dropping every value so nothing reachable through
// the registry survives. The caller must ensure no concurrent Push or TryPop;
// the pool only calls this during teardown, after all use has stopped.
func (s *Stack[T]) Reset() {
	s.head.Store(nil)
	s.size.Store(0)
}

// Len returns the approximate number of values in the stack. The result is a
// snapshot and may be stale by the time it is observed; it exists for
// diagnostics, not correctness.
func (s *Stack[T]) Len() int {
	n := s.size.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
