package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/repository/memory"
)

func TestDashboardComputesCounters(t *testing.T) {
	store := memory.NewComplaintStore()
	clock := newFakeClock()
	ctx := context.Background()

	seed := func(status domain.ComplaintStatus, category domain.ComplaintCategory, resolvedAfter time.Duration) {
		created := clock.Now().Add(-2 * time.Hour)
		complaint := &domain.Complaint{
			Title:       "t",
			Description: "d",
			Category:    category,
			Priority:    domain.PriorityMedium,
			Status:      status,
			UserID:      "u1",
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if resolvedAfter > 0 {
			resolvedAt := created.Add(resolvedAfter)
			complaint.ResolvedAt = &resolvedAt
		}
		require.NoError(t, store.Create(ctx, complaint))
	}

	seed(domain.ComplaintStatusSubmitted, domain.CategoryTechnical, 0)
	seed(domain.ComplaintStatusInProgress, domain.CategoryTechnical, 0)
	seed(domain.ComplaintStatusEscalated, domain.CategoryService, 0)
	seed(domain.ComplaintStatusResolved, domain.CategoryBilling, time.Hour)
	seed(domain.ComplaintStatusClosed, domain.CategoryBilling, 3*time.Hour)

	// Nil cache client forces the compute path.
	stats := NewStatsService(StatsDependencies{
		ComplaintRepo: store,
		Logger:        zap.NewNop(),
		Clock:         clock.Now,
	})

	dashboard, err := stats.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), dashboard.Total)
	assert.Equal(t, int64(2), dashboard.Resolved)
	assert.Equal(t, int64(2), dashboard.Pending)
	assert.Equal(t, int64(1), dashboard.Escalated)
	assert.InDelta(t, 2*time.Hour.Seconds(), dashboard.AvgResolutionSeconds, 0.01)
	assert.Equal(t, int64(2), dashboard.ByCategory[domain.CategoryTechnical])
	assert.Equal(t, int64(2), dashboard.ByCategory[domain.CategoryBilling])
	assert.Equal(t, int64(1), dashboard.ByStatus[domain.ComplaintStatusEscalated])
	assert.Equal(t, int64(5), dashboard.ByPriority[domain.PriorityMedium])
	assert.Equal(t, clock.Now(), dashboard.GeneratedAt)
}

func TestDashboardEmptyStore(t *testing.T) {
	stats := NewStatsService(StatsDependencies{
		ComplaintRepo: memory.NewComplaintStore(),
		Logger:        zap.NewNop(),
	})

	dashboard, err := stats.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dashboard.Total)
	assert.Zero(t, dashboard.AvgResolutionSeconds)
	assert.Empty(t, dashboard.ByStatus)
}
