package events

import "time"

const UserCreatedTopic = "staff.user.created.v1"

type UserCreatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	OccurredAt     time.Time `json:"occurred_at"`
}
