package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/domain"
)

// StatusHistoryStore is an in-memory StatusHistoryRepository. Entries are
// kept in insertion order so the audit trail reflects call order exactly.
type StatusHistoryStore struct {
	mu      sync.RWMutex
	entries []domain.StatusHistory
}

// NewStatusHistoryStore builds an empty store.
func NewStatusHistoryStore() *StatusHistoryStore {
	return &StatusHistoryStore{}
}

func (s *StatusHistoryStore) Create(_ context.Context, entry *domain.StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *StatusHistoryStore) ListByComplaint(_ context.Context, complaintID string) ([]domain.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.StatusHistory
	for _, entry := range s.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *StatusHistoryStore) DeleteByComplaint(_ context.Context, complaintID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ComplaintID != complaintID {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
	return nil
}
