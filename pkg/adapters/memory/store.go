package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/itfview/pkg/domain"
)

// Store implements ports.PreferenceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.DisplayOptions
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.DisplayOptions),
	}
}

// Save persists the options in memory.
func (s *Store) Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error {
	opts.SelectedVariables = slices.Clone(opts.SelectedVariables)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[viewID] = opts
	return nil
}

// Load retrieves the options from memory.
func (s *Store) Load(ctx context.Context, viewID string) (domain.DisplayOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts, ok := s.data[viewID]
	if !ok {
		return domain.DisplayOptions{}, domain.ErrViewNotFound
	}

	// Copy on read so callers can't mutate the stored selection.
	opts.SelectedVariables = slices.Clone(opts.SelectedVariables)
	return opts, nil
}

// Delete removes the options.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, viewID)
	return nil
}

// List returns stored view IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]string, 0, len(s.data))
	for id := range s.data {
		views = append(views, id)
	}
	return views, nil
}
