package usecase

import "sync"

// resourceState is the observable state of one resource family: the last
// fetched list, the last fetched detail, an in-flight counter behind the
// loading flag and the last error message.
type resourceState[T any] struct {
	mu       sync.RWMutex
	items    []T
	current  *T
	inflight int
	errMsg   string
}

// begin marks a call as in flight and clears the previous error. The
// returned func must be deferred by the caller.
func (s *resourceState[T]) begin() func() {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}
}

func (s *resourceState[T]) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

func (s *resourceState[T]) setItems(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cp
}

func (s *resourceState[T]) setCurrent(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &item
}

func (s *resourceState[T]) removeWhere(match func(T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

func (s *resourceState[T]) list() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]T, len(s.items))
	copy(cp, s.items)
	return cp
}

func (s *resourceState[T]) detail() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

func (s *resourceState[T]) loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *resourceState[T]) lastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
