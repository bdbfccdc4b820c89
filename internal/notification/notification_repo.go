package notification

import (
	"context"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByRecipient(ctx context.Context, organizationID, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, organizationID, recipientID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByRecipient(ctx context.Context, organizationID, recipientID string) ([]Notification, error) {
	var rows []Notification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// MarkRead hanya bisa dilakukan penerima; baris milik orang lain tidak
// pernah match kondisi WHERE-nya.
func (r *repository) MarkRead(ctx context.Context, organizationID, recipientID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		Update("read_at", time.Now().UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
