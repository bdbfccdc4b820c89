package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, organizationID string, id string) (*User, error)
	// FindByEmail is unscoped by organization: login happens before we know
	// which organization the caller belongs to.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAllByOrganization(ctx context.Context, organizationID string) ([]User, error)
	// FindManagersByDepartment lists active managers for a department; with an
	// empty department it lists every manager in the organization.
	FindManagersByDepartment(ctx context.Context, organizationID string, department string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Deactivate(ctx context.Context, organizationID string, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, organizationID string, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindManagersByDepartment(ctx context.Context, organizationID string, department string) ([]User, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("role = ?", "MANAGER").
		Where("active = ?", true)
	if department != "" {
		q = q.Where("department = ?", department)
	}

	var users []User
	err := q.Order("full_name ASC").Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Deactivate flips active off and soft-deletes in one statement so the
// absence rules see the departure immediately.
func (r *repository) Deactivate(ctx context.Context, organizationID string, id string) error {
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":     false,
			"deleted_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
