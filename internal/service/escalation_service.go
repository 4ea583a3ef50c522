package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/repository"
)

// SystemActorID marks audit entries written by automated sweeps rather
// than a human actor.
const SystemActorID = "system"

// slaHours maps priority to the age, in hours, after which an unresolved
// complaint escalates.
var slaHours = map[domain.ComplaintPriority]int{
	domain.PriorityCritical: 2,
	domain.PriorityHigh:     8,
	domain.PriorityMedium:   24,
	domain.PriorityLow:      72,
}

// bumpedPriority is the priority a complaint gains when it escalates.
var bumpedPriority = map[domain.ComplaintPriority]domain.ComplaintPriority{
	domain.PriorityLow:      domain.PriorityMedium,
	domain.PriorityMedium:   domain.PriorityHigh,
	domain.PriorityHigh:     domain.PriorityCritical,
	domain.PriorityCritical: domain.PriorityCritical,
}

// EscalationService applies SLA age rules to unresolved complaints.
type EscalationService struct {
	complaints repository.ComplaintRepository
	history    repository.StatusHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EscalationDependencies bundles collaborators for the sweep.
type EscalationDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.StatusHistoryRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &EscalationService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        now,
	}
}

// SweepResult summarizes one escalation pass.
type SweepResult struct {
	Processed int
	Escalated int
}

// Sweep escalates every unresolved complaint whose age exceeds its
// priority SLA. Already-escalated complaints are skipped; individual
// failures are logged and do not stop the pass.
func (s *EscalationService) Sweep(ctx context.Context) (SweepResult, error) {
	complaints, err := s.complaints.ListUnresolved(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Processed: len(complaints)}
	now := s.now()
	for i := range complaints {
		complaint := complaints[i]
		if complaint.Status == domain.ComplaintStatusEscalated {
			continue
		}
		age := now.Sub(complaint.CreatedAt)
		limit, ok := slaHours[complaint.Priority]
		if !ok {
			continue
		}
		if age < time.Duration(limit)*time.Hour {
			continue
		}

		reason := fmt.Sprintf("%s priority complaint unresolved for %d hours (SLA: %d hours)",
			complaint.Priority, int(age.Hours()), limit)
		if err := s.escalate(ctx, &complaint, reason, now); err != nil {
			s.logger.Error("failed to escalate complaint",
				zap.String("complaint_id", complaint.ID),
				zap.Error(err),
			)
			continue
		}
		result.Escalated++
	}
	return result, nil
}

func (s *EscalationService) escalate(ctx context.Context, complaint *domain.Complaint, reason string, now time.Time) error {
	oldPriority := complaint.Priority
	complaint.Status = domain.ComplaintStatusEscalated
	complaint.Priority = bumpedPriority[oldPriority]
	complaint.UpdatedAt = now

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return err
	}
	if err := s.history.Create(ctx, &domain.StatusHistory{
		ComplaintID: complaint.ID,
		Status:      complaint.Status,
		ChangedByID: SystemActorID,
		Notes:       "Auto-escalated: " + reason,
		Timestamp:   now,
	}); err != nil {
		return err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventComplaintEscalated,
			ComplaintID: complaint.ID,
			ActorID:     SystemActorID,
			Timestamp:   now,
			Payload: events.ComplaintEscalatedPayload{
				FilerID:     complaint.UserID,
				Title:       complaint.Title,
				Reason:      reason,
				OldPriority: oldPriority,
				NewPriority: complaint.Priority,
			},
		})
	}
	return nil
}
