package blob

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryStore — для тестов и dev-режима.
type memoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memBlob
}

type memBlob struct {
	data        []byte
	contentType string
}

func NewMemory() Store {
	return &memoryStore{blobs: map[string]memBlob{}}
}

func (s *memoryStore) Put(_ context.Context, data []byte, contentType, name string) (string, error) {
	ref := uuid.NewString() + "_" + sanitizeName(name)
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.blobs[ref] = memBlob{data: cp, contentType: contentType}
	s.mu.Unlock()
	return ref, nil
}

func (s *memoryStore) Open(_ context.Context, ref string) ([]byte, string, error) {
	s.mu.RLock()
	b, ok := s.blobs[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, "", ErrNotFound
	}
	return b.data, b.contentType, nil
}

func (s *memoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[ref]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, ref)
	return nil
}
