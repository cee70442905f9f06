package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*datasetRecord
	now      func() time.Time
}

type datasetRecord struct {
	mu         sync.RWMutex
	dataset    entity.Dataset
	lastAccess time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		datasets: make(map[string]*datasetRecord),
		now:      time.Now,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, ds entity.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.Meta.ID]; exists {
		return pkgerror.NewBusiness("dataset already exists", pkgerror.CodeConflict)
	}

	s.datasets[ds.Meta.ID] = &datasetRecord{
		dataset:    ds,
		lastAccess: s.now(),
	}

	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (entity.Dataset, error) {
	rec, err := s.get(id)
	if err != nil {
		return entity.Dataset{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.lastAccess = s.now()

	return rec.dataset, nil
}

// Update applies fn to a working copy of the dataset and commits it only when fn succeeds.
func (s *InMemoryStore) Update(ctx context.Context, id string, fn func(ds *entity.Dataset) error) (entity.Dataset, error) {
	rec, err := s.get(id)
	if err != nil {
		return entity.Dataset{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	working := rec.dataset
	working.Meta.Columns = slices.Clone(rec.dataset.Meta.Columns)
	if err := fn(&working); err != nil {
		return entity.Dataset{}, err
	}

	rec.dataset = working
	rec.lastAccess = s.now()

	return rec.dataset, nil
}

// List returns the meta of every dataset ordered by upload time, then ID.
func (s *InMemoryStore) List(ctx context.Context) ([]entity.DatasetMeta, error) {
	s.mu.RLock()
	records := make([]*datasetRecord, 0, len(s.datasets))
	for _, rec := range s.datasets {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	metas := make([]entity.DatasetMeta, 0, len(records))
	for _, rec := range records {
		rec.mu.RLock()
		metas = append(metas, rec.dataset.Meta)
		rec.mu.RUnlock()
	}

	slices.SortFunc(metas, func(a, b entity.DatasetMeta) int {
		if c := a.UploadedAt.Compare(b.UploadedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	return metas, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return pkgerror.ErrNotFound
	}
	delete(s.datasets, id)

	return nil
}

// EvictIdle removes datasets whose last access is before the cutoff and reports how many went.
func (s *InMemoryStore) EvictIdle(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, rec := range s.datasets {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}

		rec.mu.RLock()
		idle := rec.lastAccess.Before(before)
		rec.mu.RUnlock()

		if idle {
			delete(s.datasets, id)
			evicted++
		}
	}

	return evicted, nil
}

// Close drops every dataset.
func (s *InMemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.datasets)

	return nil
}

func (s *InMemoryStore) get(id string) (*datasetRecord, error) {
	s.mu.RLock()
	rec, ok := s.datasets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
