package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/repository"
)

func seedComplaint(t *testing.T, store *ComplaintStore, title string, status domain.ComplaintStatus, category domain.ComplaintCategory, createdAt time.Time) *domain.Complaint {
	t.Helper()
	complaint := &domain.Complaint{
		Title:       title,
		Description: "description of " + title,
		Category:    category,
		Priority:    domain.PriorityMedium,
		Status:      status,
		UserID:      "u1",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, store.Create(context.Background(), complaint))
	return complaint
}

func TestComplaintStoreFilterAndOrder(t *testing.T) {
	store := NewComplaintStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	seedComplaint(t, store, "oldest", domain.ComplaintStatusSubmitted, domain.CategoryTechnical, base)
	seedComplaint(t, store, "middle", domain.ComplaintStatusInProgress, domain.CategoryBilling, base.Add(time.Hour))
	seedComplaint(t, store, "newest", domain.ComplaintStatusResolved, domain.CategoryBilling, base.Add(2*time.Hour))

	all, err := store.ListWithFilter(context.Background(), repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Title)
	assert.Equal(t, "oldest", all[2].Title)

	billing, err := store.ListWithFilter(context.Background(), repository.ComplaintFilter{
		Categories: []domain.ComplaintCategory{domain.CategoryBilling},
	})
	require.NoError(t, err)
	assert.Len(t, billing, 2)

	open, err := store.ListWithFilter(context.Background(), repository.ComplaintFilter{
		Statuses: []domain.ComplaintStatus{domain.ComplaintStatusSubmitted, domain.ComplaintStatusInProgress},
	})
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestComplaintStoreSearchIsCaseInsensitive(t *testing.T) {
	store := NewComplaintStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	seedComplaint(t, store, "Router Offline", domain.ComplaintStatusSubmitted, domain.CategoryTechnical, base)
	seedComplaint(t, store, "Invoice issue", domain.ComplaintStatusSubmitted, domain.CategoryBilling, base)

	term := "ROUTER"
	found, err := store.ListWithFilter(context.Background(), repository.ComplaintFilter{SearchTerm: &term})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Router Offline", found[0].Title)

	term = "description of invoice"
	found, err = store.ListWithFilter(context.Background(), repository.ComplaintFilter{SearchTerm: &term})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestComplaintStorePagination(t *testing.T) {
	store := NewComplaintStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedComplaint(t, store, "c", domain.ComplaintStatusSubmitted, domain.CategoryGeneral, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := store.ListWithFilter(context.Background(), repository.ComplaintFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = store.ListWithFilter(context.Background(), repository.ComplaintFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, err = store.ListWithFilter(context.Background(), repository.ComplaintFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestComplaintStoreDateRange(t *testing.T) {
	store := NewComplaintStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedComplaint(t, store, "in-range", domain.ComplaintStatusSubmitted, domain.CategoryGeneral, base.Add(12*time.Hour))
	seedComplaint(t, store, "out-of-range", domain.ComplaintStatusSubmitted, domain.CategoryGeneral, base.Add(48*time.Hour))

	result, err := store.ListByDateRange(context.Background(), base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "in-range", result[0].Title)
}

func TestComplaintStoreNotFound(t *testing.T) {
	store := NewComplaintStore()

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Update(context.Background(), &domain.Complaint{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
