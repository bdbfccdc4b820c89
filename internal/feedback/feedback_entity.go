package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index"`
	AuthorID       uuid.UUID      `gorm:"column:author_id;type:uuid;not null;index"`
	RecipientID    uuid.UUID      `gorm:"column:recipient_id;type:uuid;not null;index"`
	Body           string         `gorm:"column:body;type:text;not null"`
	PolishedBody   string         `gorm:"column:polished_body;type:text;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Author         *AuthorRef     `gorm:"foreignKey:AuthorID;references:ID"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

type AuthorRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (AuthorRef) TableName() string {
	return "users"
}
