package store

import (
	"slices"
	"sync"
)

// Memory keeps the snapshot in memory. Nothing survives the process.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.data), nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	return nil
}
