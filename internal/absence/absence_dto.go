package absence

import "time"

type CreateAbsenceRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type AbsenceResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Reference   string  `json:"reference"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	WorkingDays int     `json:"working_days"`
	TotalDays   int     `json:"total_days"`
	DecidedBy   *string `json:"decided_by,omitempty"`
	DecidedAt   *string `json:"decided_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Statistics aggregates a user's non-deleted absences. TotalDays spans every
// status; ApprovedDays counts APPROVED rows only.
type Statistics struct {
	TotalDays        int `json:"total_days"`
	ApprovedDays     int `json:"approved_days"`
	PendingRequests  int `json:"pending_requests"`
	RejectedRequests int `json:"rejected_requests"`
}

func mapToResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:          a.ID.String(),
		UserID:      a.UserID.String(),
		Reference:   a.Reference,
		StartDate:   a.StartDate.Format("2006-01-02"),
		EndDate:     a.EndDate.Format("2006-01-02"),
		Reason:      a.Reason,
		Status:      string(a.Status),
		WorkingDays: a.WorkingDays,
		TotalDays:   a.TotalDays,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}

	if a.DecidedBy != nil {
		decidedBy := a.DecidedBy.String()
		resp.DecidedBy = &decidedBy
	}
	if a.DecidedAt != nil {
		decidedAt := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}

	return resp
}

func mapToListResponse(absences []Absence) []AbsenceResponse {
	out := make([]AbsenceResponse, 0, len(absences))
	for _, a := range absences {
		out = append(out, mapToResponse(a))
	}
	return out
}
