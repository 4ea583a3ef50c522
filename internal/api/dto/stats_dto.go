package dto

import "github.com/resolveit/complaint-service/internal/domain"

// CategoryCountResponse grouped count per category.
type CategoryCountResponse struct {
	Category domain.ComplaintCategory `json:"category"`
	Count    int64                    `json:"count"`
}

// StatusCountResponse grouped count per status.
type StatusCountResponse struct {
	Status domain.ComplaintStatus `json:"status"`
	Count  int64                  `json:"count"`
}

// PriorityCountResponse grouped count per priority.
type PriorityCountResponse struct {
	Priority domain.ComplaintPriority `json:"priority"`
	Count    int64                    `json:"count"`
}
