package domain

import "time"

// InternalNote is a staff annotation on a complaint. Public notes are
// visible to the filing user and trigger a notification; internal notes
// stay staff-only.
type InternalNote struct {
	ID          string
	ComplaintID string
	Note        string
	CreatedByID string
	IsPublic    bool
	CreatedAt   time.Time
}
