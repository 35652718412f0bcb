package database

import (
	"context"
	"sync"
)

// MemoryDocuments is an in-process Documents implementation. Contents are lost
// when the process exits.
type MemoryDocuments struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// Ensure MemoryDocuments implements the interface at compile time.
var _ Documents = (*MemoryDocuments)(nil)

// NewMemoryDocuments creates an empty in-memory backend.
func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{data: make(map[string]map[string][]byte)}
}

func (m *MemoryDocuments) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.data[collection]
	if !ok {
		docs = make(map[string][]byte)
		m.data[collection] = docs
	}
	docs[id] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryDocuments) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryDocuments) List(ctx context.Context, collection string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, 0, len(m.data[collection]))
	for _, data := range m.data[collection] {
		out = append(out, append([]byte(nil), data...))
	}
	return out, nil
}

func (m *MemoryDocuments) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.data[collection], id)
	return nil
}

func (m *MemoryDocuments) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[collection]), nil
}

func (m *MemoryDocuments) Close() error {
	return nil
}
