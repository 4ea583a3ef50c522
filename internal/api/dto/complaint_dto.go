package dto

import (
	"time"

	"github.com/resolveit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// UpdateStatusRequest payload for staff status changes.
type UpdateStatusRequest struct {
	Status     domain.ComplaintStatus `json:"status"`
	Notes      string                 `json:"notes"`
	Resolution *string                `json:"resolution"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Note     string `json:"note"`
	IsPublic bool   `json:"is_public"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Category     domain.ComplaintCategory `json:"category"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Status       domain.ComplaintStatus   `json:"status"`
	UserID       string                   `json:"user_id"`
	AssignedToID *string                  `json:"assigned_to_id"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Category     domain.ComplaintCategory `json:"category"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Status       domain.ComplaintStatus   `json:"status"`
	UserID       string                   `json:"user_id"`
	AssignedToID *string                  `json:"assigned_to_id"`
	Resolution   *string                  `json:"resolution"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	ResolvedAt   *time.Time               `json:"resolved_at"`
	History      []StatusHistoryResponse  `json:"history"`
	Notes        []NoteResponse           `json:"notes"`
}

// StatusHistoryResponse represents an audit trail entry.
type StatusHistoryResponse struct {
	ID          string                 `json:"id"`
	Status      domain.ComplaintStatus `json:"status"`
	ChangedByID string                 `json:"changed_by_id"`
	Notes       string                 `json:"notes"`
	Timestamp   time.Time              `json:"timestamp"`
}

// NoteResponse represents a complaint annotation.
type NoteResponse struct {
	ID          string    `json:"id"`
	Note        string    `json:"note"`
	CreatedByID string    `json:"created_by_id"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}
