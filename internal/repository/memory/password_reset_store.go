package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/repository"
)

// PasswordResetStore is an in-memory PasswordResetRepository.
type PasswordResetStore struct {
	mu     sync.RWMutex
	tokens map[string]repository.PasswordResetToken
}

// NewPasswordResetStore builds an empty store.
func NewPasswordResetStore() *PasswordResetStore {
	return &PasswordResetStore{tokens: make(map[string]repository.PasswordResetToken)}
}

func (s *PasswordResetStore) Create(_ context.Context, token *repository.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	s.tokens[token.ID] = *token
	return nil
}

func (s *PasswordResetStore) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.Token == tokenStr {
			found := token
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *PasswordResetStore) MarkUsed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	token.UsedAt = &now
	s.tokens[id] = token
	return nil
}
