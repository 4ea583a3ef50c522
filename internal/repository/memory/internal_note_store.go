package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/domain"
)

// InternalNoteStore is an in-memory InternalNoteRepository.
type InternalNoteStore struct {
	mu    sync.RWMutex
	notes []domain.InternalNote
}

// NewInternalNoteStore builds an empty store.
func NewInternalNoteStore() *InternalNoteStore {
	return &InternalNoteStore{}
}

func (s *InternalNoteStore) Create(_ context.Context, note *domain.InternalNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	s.notes = append(s.notes, *note)
	return nil
}

func (s *InternalNoteStore) ListByComplaint(_ context.Context, complaintID string, publicOnly bool) ([]domain.InternalNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.InternalNote
	for _, note := range s.notes {
		if note.ComplaintID != complaintID {
			continue
		}
		if publicOnly && !note.IsPublic {
			continue
		}
		result = append(result, note)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *InternalNoteStore) DeleteByComplaint(_ context.Context, complaintID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notes[:0]
	for _, note := range s.notes {
		if note.ComplaintID != complaintID {
			kept = append(kept, note)
		}
	}
	s.notes = kept
	return nil
}
