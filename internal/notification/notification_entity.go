package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindAbsenceRequested = "ABSENCE_REQUESTED"
	KindAbsenceDecided   = "ABSENCE_DECIDED"
)

// Notification adalah hasil konsumsi event, satu baris per penerima.
// Unique index (event_id, recipient_id) membuat insert ulang dari
// redelivery Kafka gagal 23505, itu mekanisme dedup-nya.
type Notification struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	RecipientID    uuid.UUID      `gorm:"column:recipient_id;type:uuid;not null;index;uniqueIndex:uq_notification_event_recipient"`
	EventID        string         `gorm:"column:event_id;type:varchar(64);not null;uniqueIndex:uq_notification_event_recipient"`
	Kind           string         `gorm:"column:kind;type:varchar(40);not null"`
	Title          string         `gorm:"column:title;type:varchar(200);not null"`
	Body           string         `gorm:"column:body;type:text;not null"`
	ReadAt         *time.Time     `gorm:"column:read_at;type:timestamptz"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
