package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resolveit/complaint-service/internal/api/dto"
	"github.com/resolveit/complaint-service/internal/auth"
	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/service"
	apperrors "github.com/resolveit/complaint-service/pkg/util/errorutil"
)

// StaffComplaintsHandler handles staff-side complaint management.
type StaffComplaintsHandler struct {
	complaints *service.ComplaintService
	stats      *service.StatsService
}

// NewStaffComplaintsHandler constructs handler.
func NewStaffComplaintsHandler(complaintService *service.ComplaintService, statsService *service.StatsService) *StaffComplaintsHandler {
	return &StaffComplaintsHandler{complaints: complaintService, stats: statsService}
}

// ListComplaints GET /staff/complaints.
func (h *StaffComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	filter := parseComplaintFilter(c)
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedToID = &assignee
	}

	complaints, err := h.complaints.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetComplaint GET /staff/complaints/:id. Staff see internal notes too.
func (h *StaffComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	complaint, err := h.complaints.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.complaints.History(c.Context(), complaint.ID)
	if err != nil {
		return err
	}
	notes, err := h.complaints.Notes(c.Context(), complaint.ID, false)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint, history, notes)})
}

// UpdateStatus PATCH /staff/complaints/:id/status.
func (h *StaffComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !knownStatus(req.Status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	if req.Resolution != nil && len(*req.Resolution) > domain.MaxResolutionLen {
		return apperrors.NewValidationError("resolution too long", map[string]any{"max": domain.MaxResolutionLen})
	}

	complaint, err := h.complaints.UpdateStatus(c.Context(), c.Params("id"), req.Status, actor.ID, req.Notes, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Assign PATCH /staff/complaints/:id/assign.
func (h *StaffComplaintsHandler) Assign(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssigneeID) == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}

	complaint, err := h.complaints.Assign(c.Context(), c.Params("id"), req.AssigneeID, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// AddNote POST /staff/complaints/:id/notes.
func (h *StaffComplaintsHandler) AddNote(c *fiber.Ctx) error {
	actor, err := staffPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateNoteText(req.Note); err != nil {
		return err
	}

	note, err := h.complaints.AddNote(c.Context(), c.Params("id"), req.Note, actor.ID, req.IsPublic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NoteResponse{
		ID:          note.ID,
		Note:        note.Note,
		CreatedByID: note.CreatedByID,
		IsPublic:    note.IsPublic,
		CreatedAt:   note.CreatedAt,
	}})
}

// History GET /staff/complaints/:id/history.
func (h *StaffComplaintsHandler) History(c *fiber.Ctx) error {
	history, err := h.complaints.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.StatusHistoryResponse, 0, len(history))
	for _, entry := range history {
		items = append(items, dto.StatusHistoryResponse{
			ID:          entry.ID,
			Status:      entry.Status,
			ChangedByID: entry.ChangedByID,
			Notes:       entry.Notes,
			Timestamp:   entry.Timestamp,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Dashboard GET /staff/stats/dashboard.
func (h *StaffComplaintsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.stats.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// CountByStatus GET /staff/stats/status/:status.
func (h *StaffComplaintsHandler) CountByStatus(c *fiber.Ctx) error {
	status := domain.ComplaintStatus(strings.ToUpper(c.Params("status")))
	if !knownStatus(status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}
	count, err := h.complaints.CountByStatus(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatusCountResponse{Status: status, Count: count}})
}

// CategoryBreakdown GET /staff/stats/categories.
func (h *StaffComplaintsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	counts, err := h.complaints.CategoryBreakdown(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.CategoryCountResponse{Category: count.Category, Count: count.Count})
	}
	return c.JSON(fiber.Map{"data": items})
}

// StatusBreakdown GET /staff/stats/statuses.
func (h *StaffComplaintsHandler) StatusBreakdown(c *fiber.Ctx) error {
	counts, err := h.complaints.StatusBreakdown(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.StatusCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.StatusCountResponse{Status: count.Status, Count: count.Count})
	}
	return c.JSON(fiber.Map{"data": items})
}

// PriorityBreakdown GET /staff/stats/priorities.
func (h *StaffComplaintsHandler) PriorityBreakdown(c *fiber.Ctx) error {
	counts, err := h.complaints.PriorityBreakdown(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.PriorityCountResponse, 0, len(counts))
	for _, count := range counts {
		items = append(items, dto.PriorityCountResponse{Priority: count.Priority, Count: count.Count})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListByDateRange GET /staff/complaints/range.
func (h *StaffComplaintsHandler) ListByDateRange(c *fiber.Ctx) error {
	from := parseTime(c.Query("from"))
	to := parseTime(c.Query("to"))
	if from == nil || to == nil {
		return apperrors.NewValidationError("from and to must be RFC3339 timestamps", nil)
	}

	complaints, err := h.complaints.ListByDateRange(c.Context(), *from, *to)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteComplaint DELETE /staff/complaints/:id. Admin only by routing.
func (h *StaffComplaintsHandler) DeleteComplaint(c *fiber.Ctx) error {
	if err := h.complaints.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func staffPrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil || !principal.User.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	return principal.User, nil
}
