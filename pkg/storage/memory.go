package storage

import (
	"context"
	"fmt"
	"sync"
)

type memCollection struct {
	order []string
	docs  map[string]Document
}

// MemoryBackend keeps collections in process memory.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]*memCollection)}
}

func (m *MemoryBackend) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]Document)}
		m.collections[name] = c
	}
	return c
}

func (m *MemoryBackend) Insert(_ context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	doc = cloneDocument(doc)
	id := doc.ID()
	if id == "" {
		id = newID()
		doc["id"] = id
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
	return id, nil
}

func (m *MemoryBackend) Merge(_ context.Context, collection, id string, patch Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	doc, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	doc = cloneDocument(doc)
	for k, v := range patch {
		if k != "id" {
			doc[k] = v
		}
	}
	c.docs[id] = doc
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryBackend) All(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return []Document{}, nil
	}
	out := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneDocument(c.docs[id]))
	}
	return out, nil
}
