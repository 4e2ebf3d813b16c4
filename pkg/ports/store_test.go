package ports_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports/tests"
)

// MockStore keeps options as JSON blobs to mimic a serializing backend.
type MockStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

func (m *MockStore) Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error {
	b, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[viewID] = b
	return nil
}

func (m *MockStore) Load(ctx context.Context, viewID string) (domain.DisplayOptions, error) {
	m.mu.Lock()
	b, ok := m.data[viewID]
	m.mu.Unlock()
	if !ok {
		return domain.DisplayOptions{}, domain.ErrViewNotFound
	}
	var opts domain.DisplayOptions
	err := json.Unmarshal(b, &opts)
	return opts, err
}

func (m *MockStore) Delete(ctx context.Context, viewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, viewID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestPreferenceStore_Contract(t *testing.T) {
	// The mock serializes through JSON like real adapters do, so the suite
	// checks that DisplayOptions round-trips through its tags.
	tests.RunPreferenceStoreContract(t, NewMockStore())
}
