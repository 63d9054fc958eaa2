package state

import "sync"

// subscribers delivers snapshots in version order. A snapshot older than one
// already delivered is dropped. Callbacks run one at a time and must not
// write to the Query or Mutation that is notifying them.
type subscribers[S any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(S)

	deliver   sync.Mutex
	delivered uint64
}

func (s *subscribers[S]) add(fn func(S)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = map[int]func(S){}
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers[S]) publish(version uint64, snap S) {
	s.deliver.Lock()
	defer s.deliver.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.mu.Lock()
	fns := make([]func(S), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
