package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	StaffNumber    string    `gorm:"column:staff_number;type:varchar(20);uniqueIndex:uq_user_staff_number"`
	Email          string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_user_email"`
	PasswordHash   string    `gorm:"column:password_hash;type:text;not null"`
	FullName       string    `gorm:"column:full_name;type:varchar(255);not null"`
	Role           string    `gorm:"column:role;type:varchar(20);not null;default:EMPLOYEE"`
	Department     string    `gorm:"column:department;type:varchar(100)"`
	// Phone disimpan terenkripsi (AES-GCM, base64). Jangan query kolom ini.
	Phone     string         `gorm:"column:phone;type:text"`
	Active    bool           `gorm:"column:active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
