package domain

import "time"

// StatusHistory is an immutable audit trail entry. One entry is appended
// for every status-affecting operation (creation, transition, assignment,
// escalation) and is never mutated afterwards.
type StatusHistory struct {
	ID          string
	ComplaintID string
	Status      ComplaintStatus
	ChangedByID string
	Notes       string
	Timestamp   time.Time
}
