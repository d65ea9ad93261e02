package event

import (
	"context"
	"sort"
	"sync"
)

var _ Store = (*MemStore)(nil)

// MemStore keeps events in memory for tests and local development.
type MemStore struct {
	mu     sync.Mutex
	events []Event
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Put(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *MemStore) ListByTenant(_ context.Context, tenant string) ([]*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*Event
	for i := range s.events {
		if s.events[i].Tenant != tenant {
			continue
		}
		cp := s.events[i]
		res = append(res, &cp)
	}
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].Deadline, res[j].Deadline
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return res, nil
}
