package repository

import (
	"context"
	"sync"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// MemoryStore keeps the encoded blob in memory. Round-tripping through JSON keeps it
// honest about what the real stores can represent.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) ([]model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.payload)
}

func (m *MemoryStore) Save(_ context.Context, campaigns []model.Campaign) error {
	payload, err := encode(campaigns)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = payload
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var _ CampaignStore = (*MemoryStore)(nil)
