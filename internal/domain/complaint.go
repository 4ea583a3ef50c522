package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusSubmitted   ComplaintStatus = "SUBMITTED"
	ComplaintStatusInProgress  ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusUnderReview ComplaintStatus = "UNDER_REVIEW"
	ComplaintStatusResolved    ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed      ComplaintStatus = "CLOSED"
	ComplaintStatusEscalated   ComplaintStatus = "ESCALATED"
)

// ComplaintCategory classifies the subject of a complaint.
type ComplaintCategory string

const (
	CategoryTechnical ComplaintCategory = "TECHNICAL"
	CategoryBilling   ComplaintCategory = "BILLING"
	CategoryService   ComplaintCategory = "SERVICE"
	CategoryGeneral   ComplaintCategory = "GENERAL"
	CategoryUrgent    ComplaintCategory = "URGENT"
)

// ComplaintPriority enumerates SLA urgency.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "LOW"
	PriorityMedium   ComplaintPriority = "MEDIUM"
	PriorityHigh     ComplaintPriority = "HIGH"
	PriorityCritical ComplaintPriority = "CRITICAL"
)

// MaxTitleLen and friends bound the free-text fields. They mirror the
// column sizes in the complaints schema.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxResolutionLen  = 1000
	MaxNoteLen        = 1000
)

// Complaint is the aggregate root for user-filed issues. Child records
// (StatusHistory, InternalNote) reference it by id only and share its
// deletion lifecycle.
type Complaint struct {
	ID           string
	Title        string
	Description  string
	Category     ComplaintCategory
	Priority     ComplaintPriority
	Status       ComplaintStatus
	UserID       string
	AssignedToID *string
	Resolution   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ResolvedAt   *time.Time
}

// IsTerminal reports whether the complaint reached a resolution state.
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed
}

// KnownStatuses lists every valid complaint status.
func KnownStatuses() []ComplaintStatus {
	return []ComplaintStatus{
		ComplaintStatusSubmitted,
		ComplaintStatusInProgress,
		ComplaintStatusUnderReview,
		ComplaintStatusResolved,
		ComplaintStatusClosed,
		ComplaintStatusEscalated,
	}
}

// KnownCategories lists every valid complaint category.
func KnownCategories() []ComplaintCategory {
	return []ComplaintCategory{
		CategoryTechnical,
		CategoryBilling,
		CategoryService,
		CategoryGeneral,
		CategoryUrgent,
	}
}

// KnownPriorities lists every valid complaint priority.
func KnownPriorities() []ComplaintPriority {
	return []ComplaintPriority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityCritical,
	}
}
