package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/repository"
)

// UserStore is an in-memory UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore builds an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.User
	for _, user := range s.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
