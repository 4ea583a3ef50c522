package events

import (
	"time"

	"github.com/resolveit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintNotePublished EventType = "complaint_note_published"
	EventComplaintEscalated     EventType = "complaint_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	FilerID  string                   `json:"filer_id"`
	Title    string                   `json:"title"`
	Category domain.ComplaintCategory `json:"category"`
	Priority domain.ComplaintPriority `json:"priority"`
	Status   domain.ComplaintStatus   `json:"status"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	FilerID   string                 `json:"filer_id"`
	Title     string                 `json:"title"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Notes     string                 `json:"notes,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	FilerID    string                   `json:"filer_id"`
	AssigneeID string                   `json:"assignee_id"`
	Title      string                   `json:"title"`
	Category   domain.ComplaintCategory `json:"category"`
	Priority   domain.ComplaintPriority `json:"priority"`
}

// ComplaintNotePublishedPayload payload. Emitted only for public notes;
// internal notes never leave the staff surface.
type ComplaintNotePublishedPayload struct {
	FilerID string `json:"filer_id"`
	Title   string `json:"title"`
	Note    string `json:"note"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	FilerID     string                   `json:"filer_id"`
	Title       string                   `json:"title"`
	Reason      string                   `json:"reason"`
	OldPriority domain.ComplaintPriority `json:"old_priority"`
	NewPriority domain.ComplaintPriority `json:"new_priority"`
}
