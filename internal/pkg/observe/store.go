// internal/pkg/observe/store.go

// Package observe provides a small publisher/subscriber state container.
//
// A Store holds one value of type T. Every committed Update publishes the new
// value to the subscribers registered at that moment, in subscription order.
// Updates are serialized together with their notifications, so subscribers
// see values in commit order. Subscribers run on the updating goroutine and
// may read the store, but must not update it or block for long.
package observe

import "sync"

// Listener receives the value committed by an update.
type Listener[T any] func(T)

type subscriber[T any] struct {
	id int64
	fn Listener[T]
}

// Store is a mutex-guarded value with change notification.
type Store[T any] struct {
	// writeMu orders commit plus dispatch; always taken before mu
	writeMu sync.Mutex

	mu     sync.RWMutex
	value  T
	subs   []subscriber[T]
	nextID int64
}

// NewStore creates a store holding initial.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Update applies fn to the current value under the lock and publishes the
// result. If fn reports false the value is left untouched and nobody is
// notified.
func (s *Store[T]) Update(fn func(T) (T, bool)) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next, changed := fn(s.value)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.value = next
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
	return true
}

// Set replaces the value and publishes it.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) (T, bool) { return v, true })
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered listeners.
func (s *Store[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
