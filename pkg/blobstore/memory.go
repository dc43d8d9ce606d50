package blobstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-memory Store for tests and offline development. Resolved
// URLs use the memory:// scheme; they identify content, they are not
// fetchable.
type Memory struct {
	mu      sync.RWMutex
	content map[string][]byte
}

// NewMemory returns an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{content: make(map[string][]byte)}
}

func (m *Memory) ResolveURL(ctx context.Context, ref string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.content[ref]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return "memory://" + ref, nil
}

func (m *Memory) Upload(ctx context.Context, ref string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("blobstore: read upload: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[ref] = data
	return nil
}

func (m *Memory) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.content, ref)
	return nil
}

// Len reports the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.content)
}
