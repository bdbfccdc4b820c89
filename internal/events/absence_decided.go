package events

import "time"

const AbsenceDecidedTopic = "staff.absence.decided.v1"

type AbsenceDecidedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	AbsenceID      string    `json:"absence_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Reference      string    `json:"reference"`
	Status         string    `json:"status"`
	DecidedBy      string    `json:"decided_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
