package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/storage"
)

type eventEntry struct {
	seq uint64
	m   model.Event
}

type eventStore struct {
	store map[string]eventEntry
	seq   *sequence
	sync.RWMutex
}

func newEventStore(seq *sequence) *eventStore {
	return &eventStore{
		store: make(map[string]eventEntry),
		seq:   seq,
	}
}

func (s *eventStore) FetchAll(ctx context.Context) ([]model.Event, error) {
	s.RLock()
	entries := make([]eventEntry, 0, len(s.store))
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

	models := make([]model.Event, len(entries))
	for i, e := range entries {
		models[i] = e.m
	}

	return models, nil
}

func (s *eventStore) FindByID(ctx context.Context, id string) (*model.Event, error) {
	s.RLock()
	defer s.RUnlock()
	if e, ok := s.store[id]; ok {
		m := e.m
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	seq, id := s.seq.next()
	m.ID = id
	m.CreatedAt = time.Now().UTC()

	s.store[m.ID] = eventEntry{seq: seq, m: *m}

	return nil
}

func (s *eventStore) Delete(ctx context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.store[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.store, id)

	return nil
}
