package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/repository"
	apperrors "github.com/resolveit/complaint-service/pkg/util/errorutil"
)

// ComplaintService coordinates complaint lifecycle workflows. Within each
// operation the complaint write happens before the audit append, which
// happens before the notification event; the event side must never fail or
// delay the primary mutation.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.StatusHistoryRepository
	notes      repository.InternalNoteRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the service. Clock is
// optional and defaults to time.Now.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.StatusHistoryRepository
	NoteRepo      repository.InternalNoteRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Clock         func() time.Time
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// ComplaintListFilter describes listing filters.
type ComplaintListFilter struct {
	UserID       *string
	AssignedToID *string
	Statuses     []domain.ComplaintStatus
	Categories   []domain.ComplaintCategory
	Priorities   []domain.ComplaintPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		notes:      deps.NoteRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Create files a new complaint for a user. The status is forced to
// SUBMITTED regardless of any caller-supplied value.
func (s *ComplaintService) Create(ctx context.Context, filerID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	now := s.now()
	complaint := &domain.Complaint{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.ComplaintStatusSubmitted,
		UserID:      filerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.PriorityMedium
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, complaint.ID, complaint.Status, filerID, "Complaint submitted"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     filerID,
		Payload: events.ComplaintCreatedPayload{
			FilerID:  complaint.UserID,
			Title:    complaint.Title,
			Category: complaint.Category,
			Priority: complaint.Priority,
			Status:   complaint.Status,
		},
	})
	return complaint, nil
}

// UpdateStatus transitions a complaint to newStatus. Any status may follow
// any other; there is no transition-legality matrix. Transitions into
// RESOLVED or CLOSED stamp resolvedAt, overwriting it on repeated
// transitions. A non-nil resolution replaces the stored resolution text.
func (s *ComplaintService) UpdateStatus(ctx context.Context, complaintID string, newStatus domain.ComplaintStatus, actorID, notes string, resolution *string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	complaint.UpdatedAt = s.now()
	if resolution != nil {
		complaint.Resolution = resolution
	}
	if newStatus.IsTerminal() {
		resolvedAt := s.now()
		complaint.ResolvedAt = &resolvedAt
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, complaint.ID, newStatus, actorID, notes); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     actorID,
		Payload: events.ComplaintStatusChangedPayload{
			FilerID:   complaint.UserID,
			Title:     complaint.Title,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		},
	})
	return complaint, nil
}

// Assign sets the assignee of a complaint. A SUBMITTED complaint advances
// to IN_PROGRESS as a side effect; the audit entry carries the status after
// that advance.
func (s *ComplaintService) Assign(ctx context.Context, complaintID, assigneeID, actorID string) (*domain.Complaint, error) {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, err
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	complaint.AssignedToID = &assignee.ID
	complaint.UpdatedAt = s.now()
	if complaint.Status == domain.ComplaintStatusSubmitted {
		complaint.Status = domain.ComplaintStatusInProgress
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}
	note := "Complaint assigned to " + assignee.FullName()
	if err := s.appendHistory(ctx, complaint.ID, complaint.Status, actorID, note); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     actorID,
		Payload: events.ComplaintAssignedPayload{
			FilerID:    complaint.UserID,
			AssigneeID: assignee.ID,
			Title:      complaint.Title,
			Category:   complaint.Category,
			Priority:   complaint.Priority,
		},
	})
	return complaint, nil
}

// AddNote attaches a staff annotation to a complaint. Public notes notify
// the filing user; internal notes stay silent.
func (s *ComplaintService) AddNote(ctx context.Context, complaintID, text, authorID string, isPublic bool) (*domain.InternalNote, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	note := &domain.InternalNote{
		ComplaintID: complaint.ID,
		Note:        strings.TrimSpace(text),
		CreatedByID: authorID,
		IsPublic:    isPublic,
		CreatedAt:   s.now(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	if isPublic {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventComplaintNotePublished,
			ComplaintID: complaint.ID,
			ActorID:     authorID,
			Payload: events.ComplaintNotePublishedPayload{
				FilerID: complaint.UserID,
				Title:   complaint.Title,
				Note:    note.Note,
			},
		})
	}
	return note, nil
}

// Get fetches a complaint by id.
func (s *ComplaintService) Get(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	return s.getComplaint(ctx, complaintID)
}

// List returns a page of complaints matching the filter.
func (s *ComplaintService) List(ctx context.Context, filter ComplaintListFilter) ([]domain.Complaint, error) {
	return s.complaints.ListWithFilter(ctx, repository.ComplaintFilter{
		UserID:       filter.UserID,
		AssignedToID: filter.AssignedToID,
		Statuses:     filter.Statuses,
		Categories:   filter.Categories,
		Priorities:   filter.Priorities,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

// Search returns a page of complaints whose title or description matches
// the keyword.
func (s *ComplaintService) Search(ctx context.Context, keyword string, limit, offset int) ([]domain.Complaint, error) {
	return s.List(ctx, ComplaintListFilter{
		SearchTerm: &keyword,
		Limit:      limit,
		Offset:     offset,
	})
}

// ListByDateRange returns complaints created within [from, to].
func (s *ComplaintService) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Complaint, error) {
	return s.complaints.ListByDateRange(ctx, from, to)
}

// CountByStatus returns the number of complaints in the given status.
func (s *ComplaintService) CountByStatus(ctx context.Context, status domain.ComplaintStatus) (int64, error) {
	return s.complaints.CountByStatus(ctx, status)
}

// CategoryBreakdown returns grouped complaint counts per category.
func (s *ComplaintService) CategoryBreakdown(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.complaints.GroupCountByCategory(ctx)
}

// StatusBreakdown returns grouped complaint counts per status.
func (s *ComplaintService) StatusBreakdown(ctx context.Context) ([]repository.StatusCount, error) {
	return s.complaints.GroupCountByStatus(ctx)
}

// PriorityBreakdown returns grouped complaint counts per priority.
func (s *ComplaintService) PriorityBreakdown(ctx context.Context) ([]repository.PriorityCount, error) {
	return s.complaints.GroupCountByPriority(ctx)
}

// History returns the audit trail for a complaint in chronological order.
func (s *ComplaintService) History(ctx context.Context, complaintID string) ([]domain.StatusHistory, error) {
	if _, err := s.getComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.history.ListByComplaint(ctx, complaintID)
}

// Notes returns annotations for a complaint, optionally public ones only.
func (s *ComplaintService) Notes(ctx context.Context, complaintID string, publicOnly bool) ([]domain.InternalNote, error) {
	if _, err := s.getComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.notes.ListByComplaint(ctx, complaintID, publicOnly)
}

// Delete removes a complaint together with its history and notes.
func (s *ComplaintService) Delete(ctx context.Context, complaintID string) error {
	if _, err := s.getComplaint(ctx, complaintID); err != nil {
		return err
	}
	if err := s.history.DeleteByComplaint(ctx, complaintID); err != nil {
		return err
	}
	if err := s.notes.DeleteByComplaint(ctx, complaintID); err != nil {
		return err
	}
	return s.complaints.Delete(ctx, complaintID)
}

func (s *ComplaintService) getComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) appendHistory(ctx context.Context, complaintID string, status domain.ComplaintStatus, actorID, notes string) error {
	return s.history.Create(ctx, &domain.StatusHistory{
		ComplaintID: complaintID,
		Status:      status,
		ChangedByID: actorID,
		Notes:       notes,
		Timestamp:   s.now(),
	})
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
