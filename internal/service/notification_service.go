package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resolveit/complaint-service/internal/events"
	"github.com/resolveit/complaint-service/internal/mail"
	"github.com/resolveit/complaint-service/internal/repository"
)

// MailOutbox accepts outbound messages for asynchronous delivery.
type MailOutbox interface {
	Enqueue(msg mail.Message)
}

// NotificationService turns domain events into outbound emails. Delivery is
// strictly best-effort: every error here is logged and swallowed so the
// lifecycle operation that emitted the event is never affected.
type NotificationService struct {
	users  repository.UserRepository
	outbox MailOutbox
	logger *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(users repository.UserRepository, outbox MailOutbox, logger *zap.Logger) *NotificationService {
	return &NotificationService{users: users, outbox: outbox, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventComplaintAssigned, n.handleAssigned)
	dispatcher.Subscribe(events.EventComplaintNotePublished, n.handleNotePublished)
	dispatcher.Subscribe(events.EventComplaintEscalated, n.handleEscalated)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return nil
	}
	filer, err := n.users.GetByID(ctx, payload.FilerID)
	if err != nil {
		n.logRecipientFailure(event, payload.FilerID, err)
		return nil
	}
	n.outbox.Enqueue(mail.Message{
		To:      filer.Email,
		Subject: fmt.Sprintf("Complaint Submitted Successfully - #%s", event.ComplaintID),
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"Your complaint has been submitted successfully.\n\n"+
				"Complaint ID: #%s\n"+
				"Title: %s\n"+
				"Status: %s\n"+
				"Priority: %s\n\n"+
				"You can track your complaint status using the complaint ID.\n\n"+
				"Thank you for contacting us.\n\n"+
				"Best regards,\nResolveIt Support Team",
			filer.FirstName, event.ComplaintID, payload.Title, payload.Status, payload.Priority),
	})
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		return nil
	}
	filer, err := n.users.GetByID(ctx, payload.FilerID)
	if err != nil {
		n.logRecipientFailure(event, payload.FilerID, err)
		return nil
	}
	n.outbox.Enqueue(mail.Message{
		To:      filer.Email,
		Subject: fmt.Sprintf("Complaint Status Updated - #%s", event.ComplaintID),
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"Your complaint status has been updated.\n\n"+
				"Complaint ID: #%s\n"+
				"Title: %s\n"+
				"Previous Status: %s\n"+
				"Current Status: %s\n\n"+
				"You can view more details by logging into your account.\n\n"+
				"Thank you for your patience.\n\n"+
				"Best regards,\nResolveIt Support Team",
			filer.FirstName, event.ComplaintID, payload.Title, payload.OldStatus, payload.NewStatus),
	})
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if !ok {
		return nil
	}
	assignee, err := n.users.GetByID(ctx, payload.AssigneeID)
	if err != nil {
		n.logRecipientFailure(event, payload.AssigneeID, err)
		return nil
	}
	filerName := "a user"
	if filer, err := n.users.GetByID(ctx, payload.FilerID); err == nil {
		filerName = filer.FullName()
	}
	n.outbox.Enqueue(mail.Message{
		To:      assignee.Email,
		Subject: fmt.Sprintf("New Complaint Assigned - #%s", event.ComplaintID),
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"A new complaint has been assigned to you.\n\n"+
				"Complaint ID: #%s\n"+
				"Title: %s\n"+
				"Category: %s\n"+
				"Priority: %s\n"+
				"Submitted by: %s\n\n"+
				"Please log in to the admin panel to view and manage this complaint.\n\n"+
				"Best regards,\nResolveIt System",
			assignee.FirstName, event.ComplaintID, payload.Title, payload.Category, payload.Priority, filerName),
	})
	return nil
}

func (n *NotificationService) handleNotePublished(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintNotePublishedPayload)
	if !ok {
		return nil
	}
	filer, err := n.users.GetByID(ctx, payload.FilerID)
	if err != nil {
		n.logRecipientFailure(event, payload.FilerID, err)
		return nil
	}
	n.outbox.Enqueue(mail.Message{
		To:      filer.Email,
		Subject: fmt.Sprintf("Update on Your Complaint - #%s", event.ComplaintID),
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"There's an update on your complaint.\n\n"+
				"Complaint ID: #%s\n"+
				"Title: %s\n\n"+
				"Update:\n%s\n\n"+
				"You can view more details by logging into your account.\n\n"+
				"Best regards,\nResolveIt Support Team",
			filer.FirstName, event.ComplaintID, payload.Title, payload.Note),
	})
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintEscalatedPayload)
	if !ok {
		return nil
	}
	filer, err := n.users.GetByID(ctx, payload.FilerID)
	if err != nil {
		n.logRecipientFailure(event, payload.FilerID, err)
		return nil
	}
	n.outbox.Enqueue(mail.Message{
		To:      filer.Email,
		Subject: fmt.Sprintf("Complaint Escalated - #%s", event.ComplaintID),
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"Your complaint has been escalated for priority handling.\n\n"+
				"Complaint ID: #%s\n"+
				"Title: %s\n"+
				"Reason: %s\n"+
				"Priority: %s\n\n"+
				"Our team is working to resolve it as quickly as possible.\n\n"+
				"Best regards,\nResolveIt Support Team",
			filer.FirstName, event.ComplaintID, payload.Title, payload.Reason, payload.NewPriority),
	})
	return nil
}

func (n *NotificationService) logRecipientFailure(event events.Event, userID string, err error) {
	n.logger.Warn("unable to resolve notification recipient",
		zap.String("event_type", string(event.Type)),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("user_id", userID),
		zap.Error(err),
	)
}
