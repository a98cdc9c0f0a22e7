// SPDX-License-Identifier: MPL-2.0

package session

// lazySlot memoizes the outcome of a load function: the first call runs the
// load, every later call returns the cached result. A failed load is cached
// too: within one session, a load is attempted at most once and its outcome
// (value or error) holds for the session's lifetime.
//
// Sessions are single-threaded by construction, so no synchronization is
// needed; sharing a Session across goroutines would require sync.Once here.
type lazySlot[T any] struct {
	loaded bool
	value  T
	err    error
}

func (s *lazySlot[T]) get(load func() (T, error)) (T, error) {
	if !s.loaded {
		s.value, s.err = load()
		s.loaded = true
	}
	return s.value, s.err
}
