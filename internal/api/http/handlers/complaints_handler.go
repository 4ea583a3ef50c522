package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/resolveit/complaint-service/internal/api/dto"
	"github.com/resolveit/complaint-service/internal/auth"
	"github.com/resolveit/complaint-service/internal/domain"
	"github.com/resolveit/complaint-service/internal/service"
	apperrors "github.com/resolveit/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints for filing users.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateCreateComplaint(&req); err != nil {
		return err
	}

	complaint, err := h.complaints.Create(c.Context(), principal.User.ID, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ListComplaints GET /complaints. Scoped to the caller's own complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parseComplaintFilter(c)
	filter.UserID = &principal.User.ID

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

// GetComplaint GET /complaints/:id. Filers see public notes only.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaint, err := h.complaints.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if complaint.UserID != principal.User.ID && !principal.User.IsStaff() {
		return apperrors.NewForbidden("not your complaint")
	}

	history, err := h.complaints.History(c.Context(), complaint.ID)
	if err != nil {
		return err
	}
	publicOnly := !principal.User.IsStaff()
	notes, err := h.complaints.Notes(c.Context(), complaint.ID, publicOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint, history, notes)})
}

func parseComplaintFilter(c *fiber.Ctx) service.ComplaintListFilter {
	filter := service.ComplaintListFilter{}
	if statuses := c.Query("status"); statuses != "" {
		for _, part := range strings.Split(statuses, ",") {
			filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(strings.TrimSpace(part)))
		}
	}
	if categories := c.Query("category"); categories != "" {
		for _, part := range strings.Split(categories, ",") {
			filter.Categories = append(filter.Categories, domain.ComplaintCategory(strings.TrimSpace(part)))
		}
	}
	if priorities := c.Query("priority"); priorities != "" {
		for _, part := range strings.Split(priorities, ",") {
			filter.Priorities = append(filter.Priorities, domain.ComplaintPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if createdFrom := parseTime(c.Query("created_from")); createdFrom != nil {
		filter.CreatedFrom = createdFrom
	}
	if createdTo := parseTime(c.Query("created_to")); createdTo != nil {
		filter.CreatedTo = createdTo
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:           complaint.ID,
		Title:        complaint.Title,
		Category:     complaint.Category,
		Priority:     complaint.Priority,
		Status:       complaint.Status,
		UserID:       complaint.UserID,
		AssignedToID: complaint.AssignedToID,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
	}
}

func complaintDetail(complaint *domain.Complaint, history []domain.StatusHistory, notes []domain.InternalNote) dto.ComplaintDetailResponse {
	historyResp := make([]dto.StatusHistoryResponse, 0, len(history))
	for _, entry := range history {
		historyResp = append(historyResp, dto.StatusHistoryResponse{
			ID:          entry.ID,
			Status:      entry.Status,
			ChangedByID: entry.ChangedByID,
			Notes:       entry.Notes,
			Timestamp:   entry.Timestamp,
		})
	}
	noteResp := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		noteResp = append(noteResp, dto.NoteResponse{
			ID:          note.ID,
			Note:        note.Note,
			CreatedByID: note.CreatedByID,
			IsPublic:    note.IsPublic,
			CreatedAt:   note.CreatedAt,
		})
	}
	return dto.ComplaintDetailResponse{
		ID:           complaint.ID,
		Title:        complaint.Title,
		Description:  complaint.Description,
		Category:     complaint.Category,
		Priority:     complaint.Priority,
		Status:       complaint.Status,
		UserID:       complaint.UserID,
		AssignedToID: complaint.AssignedToID,
		Resolution:   complaint.Resolution,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
		ResolvedAt:   complaint.ResolvedAt,
		History:      historyResp,
		Notes:        noteResp,
	}
}
