package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is a Store over an in-memory inventory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates a store holding records.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{records: append([]Record(nil), records...)}
}

// LoadMemoryStore reads a JSON array of records.
func LoadMemoryStore(r io.Reader) (*MemoryStore, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return NewMemoryStore(records...), nil
}

// Add appends records to the inventory.
func (m *MemoryStore) Add(records ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// Len returns the number of records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStore) Match(ctx context.Context, c Criteria) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, r := range m.records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
