package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/repository/memory"
)

type escalationFixture struct {
	complaints *memory.ComplaintStore
	history    *memory.StatusHistoryStore
	users      *memory.UserStore
	outbox     *recordingOutbox
	clock      *fakeClock
	service    *EscalationService
}

func newEscalationFixture(t *testing.T) *escalationFixture {
	t.Helper()
	fixture := &escalationFixture{
		complaints: memory.NewComplaintStore(),
		history:    memory.NewStatusHistoryStore(),
		users:      memory.NewUserStore(),
		outbox:     &recordingOutbox{},
		clock:      newFakeClock(),
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := NewNotificationService(fixture.users, fixture.outbox, zap.NewNop())
	notifications.RegisterHandlers(dispatcher)

	fixture.service = NewEscalationService(EscalationDependencies{
		ComplaintRepo: fixture.complaints,
		HistoryRepo:   fixture.history,
		Dispatcher:    dispatcher,
		Logger:        zap.NewNop(),
		Clock:         fixture.clock.Now,
	})
	return fixture
}

func (f *escalationFixture) seedComplaint(t *testing.T, userID string, priority domain.ComplaintPriority, status domain.ComplaintStatus, age time.Duration) *domain.Complaint {
	t.Helper()
	created := f.clock.Now().Add(-age)
	complaint := &domain.Complaint{
		Title:       "Aged complaint",
		Description: "Waiting on a response.",
		Category:    domain.CategoryService,
		Priority:    priority,
		Status:      status,
		UserID:      userID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, f.complaints.Create(context.Background(), complaint))
	return complaint
}

func TestSweepEscalatesPastSLA(t *testing.T) {
	fixture := newEscalationFixture(t)
	filer := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser}
	require.NoError(t, fixture.users.Create(context.Background(), filer))

	overdue := fixture.seedComplaint(t, filer.ID, domain.PriorityMedium, domain.ComplaintStatusSubmitted, 25*time.Hour)
	fresh := fixture.seedComplaint(t, filer.ID, domain.PriorityMedium, domain.ComplaintStatusSubmitted, time.Hour)

	result, err := fixture.service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Escalated)

	escalated, err := fixture.complaints.GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusEscalated, escalated.Status)
	assert.Equal(t, domain.PriorityHigh, escalated.Priority)

	untouched, err := fixture.complaints.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusSubmitted, untouched.Status)

	history, err := fixture.history.ListByComplaint(context.Background(), overdue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, SystemActorID, history[0].ChangedByID)
	assert.Contains(t, history[0].Notes, "Auto-escalated")

	require.Len(t, fixture.outbox.messages, 1)
	assert.Equal(t, filer.Email, fixture.outbox.messages[0].To)
}

func TestSweepSLABoundaries(t *testing.T) {
	cases := []struct {
		name      string
		priority  domain.ComplaintPriority
		age       time.Duration
		escalated bool
	}{
		{"critical past 2h", domain.PriorityCritical, 2 * time.Hour, true},
		{"critical under 2h", domain.PriorityCritical, 90 * time.Minute, false},
		{"high past 8h", domain.PriorityHigh, 9 * time.Hour, true},
		{"high under 8h", domain.PriorityHigh, 7 * time.Hour, false},
		{"low past 72h", domain.PriorityLow, 73 * time.Hour, true},
		{"low under 72h", domain.PriorityLow, 71 * time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := newEscalationFixture(t)
			filer := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser}
			require.NoError(t, fixture.users.Create(context.Background(), filer))
			complaint := fixture.seedComplaint(t, filer.ID, tc.priority, domain.ComplaintStatusSubmitted, tc.age)

			result, err := fixture.service.Sweep(context.Background())
			require.NoError(t, err)

			stored, err := fixture.complaints.GetByID(context.Background(), complaint.ID)
			require.NoError(t, err)
			if tc.escalated {
				assert.Equal(t, 1, result.Escalated)
				assert.Equal(t, domain.ComplaintStatusEscalated, stored.Status)
			} else {
				assert.Equal(t, 0, result.Escalated)
				assert.Equal(t, tc.priority, stored.Priority)
			}
		})
	}
}

func TestSweepSkipsAlreadyEscalated(t *testing.T) {
	fixture := newEscalationFixture(t)
	filer := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser}
	require.NoError(t, fixture.users.Create(context.Background(), filer))
	fixture.seedComplaint(t, filer.ID, domain.PriorityCritical, domain.ComplaintStatusEscalated, 100*time.Hour)

	result, err := fixture.service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Escalated)
	assert.Empty(t, fixture.outbox.messages)
}

func TestSweepSkipsResolved(t *testing.T) {
	fixture := newEscalationFixture(t)
	filer := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser}
	require.NoError(t, fixture.users.Create(context.Background(), filer))
	resolvedAt := fixture.clock.Now()
	complaint := fixture.seedComplaint(t, filer.ID, domain.PriorityCritical, domain.ComplaintStatusResolved, 100*time.Hour)
	complaint.ResolvedAt = &resolvedAt
	require.NoError(t, fixture.complaints.Update(context.Background(), complaint))

	result, err := fixture.service.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Escalated)
}
