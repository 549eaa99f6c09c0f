package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore is an in-memory implementation of driven.PromptStore.
// Records are kept in insertion order.
type PromptStore struct {
	mu      sync.RWMutex
	prompts []domain.PromptRecord
}

// NewPromptStore creates a new in-memory prompt store, optionally seeded.
// Seed records are stored as given, without conflict checks.
func NewPromptStore(seed ...domain.PromptRecord) *PromptStore {
	prompts := make([]domain.PromptRecord, len(seed))
	copy(prompts, seed)
	return &PromptStore{prompts: prompts}
}

// List returns all prompts in insertion order.
func (s *PromptStore) List(_ context.Context) ([]domain.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PromptRecord, len(s.prompts))
	copy(result, s.prompts)
	return result, nil
}

// Get retrieves a prompt by title.
func (s *PromptStore) Get(_ context.Context, title string) (*domain.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(title)
	if i < 0 {
		return nil, fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	record := s.prompts[i]
	return &record, nil
}

// Create appends a prompt after checking command and title conflicts.
func (s *PromptStore) Create(_ context.Context, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := domain.CheckConflicts(s.prompts, record, ""); err != nil {
		return err
	}
	s.prompts = append(s.prompts, record)
	return nil
}

// Update replaces the prompt stored under title in place.
func (s *PromptStore) Update(_ context.Context, title string, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(title)
	if i < 0 {
		return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	if err := domain.CheckConflicts(s.prompts, record, title); err != nil {
		return err
	}
	s.prompts[i] = record
	return nil
}

// Delete removes a prompt by title.
func (s *PromptStore) Delete(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(title)
	if i < 0 {
		return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	s.prompts = append(s.prompts[:i], s.prompts[i+1:]...)
	return nil
}

// find returns the position of title, or -1. Callers hold the lock.
func (s *PromptStore) find(title string) int {
	for i := range s.prompts {
		if s.prompts[i].Title == title {
			return i
		}
	}
	return -1
}
