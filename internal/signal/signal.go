// Package signal provides a typed observable cell: a mutable value whose
// subscribers are notified synchronously on every change. Screens and guards
// read session state through these cells so that a mutation is visible to
// every dependent before the mutating call returns.
package signal

import (
	"sort"
	"sync"
)

// Signal holds a value of type T and a set of subscribers.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]func(T)
	next  int
}

// New creates a Signal with the given initial value.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and notifies subscribers in subscription order before
// returning.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(T), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value and stores the result, notifying
// subscribers as Set does.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	s.mu.Unlock()
	s.Set(v)
}

// Subscribe registers fn for future changes and returns an unsubscribe
// function. Unsubscribing during a notification is safe; the in-flight
// notification still completes.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
