// Package memory provides in-memory repository implementations. They back
// unit tests and the development mode where no Postgres DSN is configured.
// Concurrent writers to the same complaint follow last-writer-wins row
// semantics; history stays append-only either way.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/repository"
)

// ComplaintStore is an in-memory ComplaintRepository.
type ComplaintStore struct {
	mu         sync.RWMutex
	complaints map[string]domain.Complaint
}

// NewComplaintStore builds an empty store.
func NewComplaintStore() *ComplaintStore {
	return &ComplaintStore{complaints: make(map[string]domain.Complaint)}
}

func (s *ComplaintStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	s.complaints[complaint.ID] = *complaint
	return nil
}

func (s *ComplaintStore) Update(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.complaints[complaint.ID]; !ok {
		return repository.ErrNotFound
	}
	s.complaints[complaint.ID] = *complaint
	return nil
}

func (s *ComplaintStore) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	complaint, ok := s.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &complaint, nil
}

func (s *ComplaintStore) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	s.mu.RLock()
	matched := make([]domain.Complaint, 0, len(s.complaints))
	for _, complaint := range s.complaints {
		if matchesFilter(complaint, filter) {
			matched = append(matched, complaint)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Complaint{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *ComplaintStore) ListByDateRange(_ context.Context, from, to time.Time) ([]domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Complaint
	for _, complaint := range s.complaints {
		if complaint.CreatedAt.Before(from) || complaint.CreatedAt.After(to) {
			continue
		}
		result = append(result, complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *ComplaintStore) ListUnresolved(_ context.Context) ([]domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Complaint
	for _, complaint := range s.complaints {
		if complaint.Status.IsTerminal() {
			continue
		}
		result = append(result, complaint)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *ComplaintStore) CountByStatus(_ context.Context, status domain.ComplaintStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, complaint := range s.complaints {
		if complaint.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *ComplaintStore) GroupCountByCategory(_ context.Context) ([]repository.CategoryCount, error) {
	s.mu.RLock()
	counts := make(map[domain.ComplaintCategory]int64)
	for _, complaint := range s.complaints {
		counts[complaint.Category]++
	}
	s.mu.RUnlock()

	result := make([]repository.CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, repository.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (s *ComplaintStore) GroupCountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	s.mu.RLock()
	counts := make(map[domain.ComplaintStatus]int64)
	for _, complaint := range s.complaints {
		counts[complaint.Status]++
	}
	s.mu.RUnlock()

	result := make([]repository.StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Status < result[j].Status
	})
	return result, nil
}

func (s *ComplaintStore) GroupCountByPriority(_ context.Context) ([]repository.PriorityCount, error) {
	s.mu.RLock()
	counts := make(map[domain.ComplaintPriority]int64)
	for _, complaint := range s.complaints {
		counts[complaint.Priority]++
	}
	s.mu.RUnlock()

	result := make([]repository.PriorityCount, 0, len(counts))
	for priority, count := range counts {
		result = append(result, repository.PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result, nil
}

func (s *ComplaintStore) AvgResolutionSeconds(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	var resolved int
	for _, complaint := range s.complaints {
		if complaint.ResolvedAt == nil {
			continue
		}
		sum += complaint.ResolvedAt.Sub(complaint.CreatedAt).Seconds()
		resolved++
	}
	if resolved == 0 {
		return 0, nil
	}
	return sum / float64(resolved), nil
}

func (s *ComplaintStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.complaints[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.complaints, id)
	return nil
}

func matchesFilter(complaint domain.Complaint, filter repository.ComplaintFilter) bool {
	if filter.UserID != nil && complaint.UserID != *filter.UserID {
		return false
	}
	if filter.AssignedToID != nil {
		if complaint.AssignedToID == nil || *complaint.AssignedToID != *filter.AssignedToID {
			return false
		}
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
		return false
	}
	if len(filter.Categories) > 0 && !containsCategory(filter.Categories, complaint.Category) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, complaint.Priority) {
		return false
	}
	if filter.CreatedFrom != nil && complaint.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && complaint.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		title := strings.ToLower(complaint.Title)
		description := strings.ToLower(complaint.Description)
		if !strings.Contains(title, term) && !strings.Contains(description, term) {
			return false
		}
	}
	return true
}

func containsStatus(list []domain.ComplaintStatus, v domain.ComplaintStatus) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsCategory(list []domain.ComplaintCategory, v domain.ComplaintCategory) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.ComplaintPriority, v domain.ComplaintPriority) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
