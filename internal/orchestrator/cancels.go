package orchestrator

import (
	"context"
	"sync"
)

// cancelSet holds the cancel handles for live runs.
type cancelSet struct {
	mu sync.Mutex
	m  map[string]context.CancelFunc
}

func newCancelSet() *cancelSet {
	return &cancelSet{m: make(map[string]context.CancelFunc)}
}

func (s *cancelSet) put(taskID string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[taskID] = cancel
}

func (s *cancelSet) remove(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, taskID)
}

// cancel fires the handle for taskID. Reports whether a live handle existed.
func (s *cancelSet) cancel(taskID string) bool {
	s.mu.Lock()
	cancel, ok := s.m[taskID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}
