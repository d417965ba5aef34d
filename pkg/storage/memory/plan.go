package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/storage"
)

type planEntry struct {
	seq uint64
	m   model.Plan
}

type planStore struct {
	store map[string]planEntry
	seq   *sequence
	sync.RWMutex
}

func newPlanStore(seq *sequence) *planStore {
	return &planStore{
		store: make(map[string]planEntry),
		seq:   seq,
	}
}

func (s *planStore) FetchAll(ctx context.Context) ([]model.Plan, error) {
	s.RLock()
	entries := make([]planEntry, 0, len(s.store))
	for _, e := range s.store {
		entries = append(entries, e)
	}
	s.RUnlock()

	// Newest first, insertion order breaks ties on equal timestamps
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.m.CreatedAt.Equal(b.m.CreatedAt) {
			return a.m.CreatedAt.After(b.m.CreatedAt)
		}
		return a.seq > b.seq
	})

	models := make([]model.Plan, len(entries))
	for i, e := range entries {
		models[i] = e.m
	}

	return models, nil
}

func (s *planStore) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	s.RLock()
	defer s.RUnlock()
	if e, ok := s.store[id]; ok {
		m := e.m
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *planStore) Create(ctx context.Context, m *model.Plan) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	seq, id := s.seq.next()
	m.ID = id
	m.CreatedAt = time.Now().UTC()

	s.store[m.ID] = planEntry{seq: seq, m: *m}

	return nil
}

func (s *planStore) Delete(ctx context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.store[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.store, id)

	return nil
}
