package feedback

import (
	"context"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=feedback_repo.go -destination=mock/feedback_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	FindByRecipient(ctx context.Context, organizationID, recipientID string) ([]Feedback, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindByRecipient(ctx context.Context, organizationID, recipientID string) ([]Feedback, error) {
	var rows []Feedback
	err := r.db.WithContext(ctx).
		Preload("Author").
		Scopes(tenant.Scope(organizationID)).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
