package events

import "time"

const AbsenceRequestedTopic = "staff.absence.requested.v1"

type AbsenceRequestedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	AbsenceID      string    `json:"absence_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Reference      string    `json:"reference"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}
