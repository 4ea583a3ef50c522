package handlers

import (
	"strings"

	"github.com/resolveit/complaint-service/internal/api/dto"
	"github.com/resolveit/complaint-service/internal/domain"
	apperrors "github.com/resolveit/complaint-service/pkg/util/errorutil"
)

// The lifecycle service trusts its inputs; field validation lives here at
// the boundary.

func validateCreateComplaint(req *dto.CreateComplaintRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if len(title) > domain.MaxTitleLen {
		return apperrors.NewValidationError("title too long", map[string]any{"max": domain.MaxTitleLen})
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	if len(description) > domain.MaxDescriptionLen {
		return apperrors.NewValidationError("description too long", map[string]any{"max": domain.MaxDescriptionLen})
	}
	if !knownCategory(req.Category) {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": req.Category})
	}
	if req.Priority != "" && !knownPriority(req.Priority) {
		return apperrors.NewValidationError("unknown priority", map[string]any{"priority": req.Priority})
	}
	return nil
}

func validateNoteText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperrors.NewValidationError("note required", nil)
	}
	if len(trimmed) > domain.MaxNoteLen {
		return apperrors.NewValidationError("note too long", map[string]any{"max": domain.MaxNoteLen})
	}
	return nil
}

func knownStatus(status domain.ComplaintStatus) bool {
	for _, known := range domain.KnownStatuses() {
		if status == known {
			return true
		}
	}
	return false
}

func knownCategory(category domain.ComplaintCategory) bool {
	for _, known := range domain.KnownCategories() {
		if category == known {
			return true
		}
	}
	return false
}

func knownPriority(priority domain.ComplaintPriority) bool {
	for _, known := range domain.KnownPriorities() {
		if priority == known {
			return true
		}
	}
	return false
}
