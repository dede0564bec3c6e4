package storage

import (
	"context"
	"sync"

	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

var (
	_ FixtureStore  = (*MemoryFixtureStorage)(nil)
	_ FixtureReader = (*MemoryFixtureStorage)(nil)
)

// MemoryFixtureStorage is a process-local store for dry runs and tests.
type MemoryFixtureStorage struct {
	mu      sync.Mutex
	rows    map[string]models.StoredFixtureRow
	order   []string
	upserts int
}

func NewMemoryFixtureStorage() *MemoryFixtureStorage {
	return &MemoryFixtureStorage{rows: make(map[string]models.StoredFixtureRow)}
}

func (m *MemoryFixtureStorage) UpsertFixture(ctx context.Context, row models.StoredFixtureRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := row.Key().String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[k]; !ok {
		m.order = append(m.order, k)
	}
	m.rows[k] = row
	m.upserts++
	return nil
}

func (m *MemoryFixtureStorage) GetFixture(ctx context.Context, key models.FixtureKey) (*models.StoredFixtureRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key.String()]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// Rows returns all rows in first-insert order.
func (m *MemoryFixtureStorage) Rows() []models.StoredFixtureRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StoredFixtureRow, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.rows[k])
	}
	return out
}

// Upserts counts UpsertFixture calls that reached the store.
func (m *MemoryFixtureStorage) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

func (m *MemoryFixtureStorage) Close() error { return nil }
