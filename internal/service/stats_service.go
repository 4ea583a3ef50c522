package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/repository"
)

const dashboardCacheKey = "stats:dashboard"

// DashboardStats aggregates complaint counters for the staff dashboard.
type DashboardStats struct {
	Total                int64                              `json:"total"`
	Resolved             int64                              `json:"resolved"`
	Pending              int64                              `json:"pending"`
	Escalated            int64                              `json:"escalated"`
	AvgResolutionSeconds float64                            `json:"avg_resolution_seconds"`
	ByCategory           map[domain.ComplaintCategory]int64 `json:"by_category"`
	ByStatus             map[domain.ComplaintStatus]int64   `json:"by_status"`
	ByPriority           map[domain.ComplaintPriority]int64 `json:"by_priority"`
	GeneratedAt          time.Time                          `json:"generated_at"`
}

// StatsService computes dashboard stats from grouped repository counts,
// caching the result in Redis for a short TTL. A nil Redis client disables
// caching; every read then recomputes.
type StatsService struct {
	complaints repository.ComplaintRepository
	cache      *redis.Client
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// StatsDependencies bundles collaborators for the stats service.
type StatsDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Cache         *redis.Client
	CacheTTL      time.Duration
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsService{
		complaints: deps.ComplaintRepo,
		cache:      deps.Cache,
		ttl:        ttl,
		logger:     deps.Logger,
		now:        now,
	}
}

// Dashboard returns aggregate stats, served from cache when fresh.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*DashboardStats, error) {
	statusCounts, err := s.complaints.GroupCountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	categoryCounts, err := s.complaints.GroupCountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	priorityCounts, err := s.complaints.GroupCountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	avgResolution, err := s.complaints.AvgResolutionSeconds(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		AvgResolutionSeconds: avgResolution,
		ByCategory:           make(map[domain.ComplaintCategory]int64, len(categoryCounts)),
		ByStatus:             make(map[domain.ComplaintStatus]int64, len(statusCounts)),
		ByPriority:           make(map[domain.ComplaintPriority]int64, len(priorityCounts)),
		GeneratedAt:          s.now(),
	}
	for _, row := range statusCounts {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		switch {
		case row.Status.IsTerminal():
			stats.Resolved += row.Count
		case row.Status == domain.ComplaintStatusEscalated:
			stats.Escalated += row.Count
		default:
			stats.Pending += row.Count
		}
	}
	for _, row := range categoryCounts {
		stats.ByCategory[row.Category] = row.Count
	}
	for _, row := range priorityCounts {
		stats.ByPriority[row.Priority] = row.Count
	}
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("stats cache entry corrupt", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
