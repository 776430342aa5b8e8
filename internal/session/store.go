package session

import (
	"sort"
	"sync"

	"gridlens/domain/dataset"
	"gridlens/internal/errors"
)

// Store holds every dataset uploaded during the life of the process,
// keyed by ID, plus a pointer to the most recent upload. Datasets are
// immutable, so readers never need copies; the mutex only guards the
// map and the current pointer. Nothing is evicted or persisted.
type Store struct {
	mu        sync.RWMutex
	datasets  map[string]*dataset.Dataset
	currentID string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{datasets: make(map[string]*dataset.Dataset)}
}

// Put registers a dataset and makes it the current one.
func (s *Store) Put(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.ID] = ds
	s.currentID = ds.ID
}

// Get returns a dataset by ID. The ID "current" resolves to the most
// recent upload.
func (s *Store) Get(id string) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "current" {
		id = s.currentID
	}
	ds, ok := s.datasets[id]
	if !ok {
		return nil, errors.NotFound("dataset")
	}
	return ds, nil
}

// Current returns the most recent upload.
func (s *Store) Current() (*dataset.Dataset, error) {
	return s.Get("current")
}

// List returns all stored datasets, most recent first.
func (s *Store) List() []*dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*dataset.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		all = append(all, ds)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UploadedAt.After(all[j].UploadedAt)
	})
	return all
}

// Len returns how many datasets are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
