package absence

import (
	"context"
	"database/sql"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/daterange"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	// WithTx returns a repository issuing every query on the given
	// transaction. The booking orchestrator relies on this so the overlap
	// check and the insert share one serializable transaction.
	WithTx(tx *sql.Tx) Repository

	FindByID(ctx context.Context, organizationID, id string) (*Absence, error)
	// FindByIDForUpdate locks the row for the rest of the transaction so a
	// decision cannot race another decision on the same absence.
	FindByIDForUpdate(ctx context.Context, organizationID, id string) (*Absence, error)
	FindByUserID(ctx context.Context, organizationID, userID string, statuses ...Status) ([]Absence, error)
	// FindOverlapping returns PENDING and APPROVED rows of the user whose
	// dates intersect rng, excluding soft-deleted rows and, when set,
	// excludeID. Candidates only: the caller re-checks with OverlapsWith.
	FindOverlapping(ctx context.Context, organizationID, userID string, rng daterange.DateRange, excludeID *string) ([]Absence, error)
	FindUpcoming(ctx context.Context, organizationID string, limit int) ([]Absence, error)
	// Save upserts by id. Updates refuse to touch rows belonging to another
	// organization.
	Save(ctx context.Context, a *Absence) error
	Delete(ctx context.Context, a *Absence) error
	GetStatistics(ctx context.Context, organizationID, userID string) (Statistics, error)
	// FindActor projects a user row down to the fields the absence rules
	// need. Soft-deleted users are returned with DeletedAt set so callers
	// can distinguish "deactivated" from "missing".
	FindActor(ctx context.Context, organizationID, userID string) (*Actor, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	// Same mechanism gorm's own Begin uses: swap the session's connection
	// pool for the open transaction.
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) FindByID(ctx context.Context, organizationID, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, organizationID, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByUserID(ctx context.Context, organizationID, userID string, statuses ...Status) ([]Absence, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var rows []Absence
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOverlapping(ctx context.Context, organizationID, userID string, rng daterange.DateRange, excludeID *string) ([]Absence, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("user_id = ?", userID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", rng.End(), rng.Start()).
		Order("start_date ASC")

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var rows []Absence
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindUpcoming(ctx context.Context, organizationID string, limit int) ([]Absence, error) {
	var rows []Absence
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("status = ?", StatusApproved).
		Where("start_date >= ?", daterange.Today()).
		Order("start_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, a *Absence) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Where("id = ?", a.ID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return r.db.WithContext(ctx).Create(a).Error
	}

	// Only decisions mutate persisted rows; dates and reason are immutable
	// after creation. The organization filter keeps updates tenant-safe.
	res := r.db.WithContext(ctx).
		Model(a).
		Where("organization_id = ?", a.OrganizationID).
		Updates(map[string]any{
			"status":     a.Status,
			"decided_by": a.DecidedBy,
			"decided_at": a.DecidedAt,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, a *Absence) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", a.ID, a.OrganizationID).
		Delete(&Absence{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetStatistics(ctx context.Context, organizationID, userID string) (Statistics, error) {
	rows, err := r.FindByUserID(ctx, organizationID, userID)
	if err != nil {
		return Statistics{}, err
	}

	var stats Statistics
	for _, a := range rows {
		stats.TotalDays += a.TotalDays
		switch a.Status {
		case StatusApproved:
			stats.ApprovedDays += a.TotalDays
		case StatusPending:
			stats.PendingRequests++
		case StatusRejected:
			stats.RejectedRequests++
		}
	}
	return stats, nil
}

func (r *repository) FindActor(ctx context.Context, organizationID, userID string) (*Actor, error) {
	var row struct {
		ID         uuid.UUID
		Role       string
		Department sql.NullString
		DeletedAt  sql.NullTime
	}

	// Table() keeps gorm's soft-delete scope out of the way: deactivated
	// users must still be loadable so callers can report InvalidState
	// instead of NotFound.
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id", "role", "department", "deleted_at").
		Where("id = ? AND organization_id = ?", userID, organizationID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}

	orgID, err := uuid.Parse(organizationID)
	if err != nil {
		return nil, err
	}

	actor := &Actor{
		ID:             row.ID,
		OrganizationID: orgID,
		Role:           Role(row.Role),
		Department:     row.Department.String,
	}
	if row.DeletedAt.Valid {
		deletedAt := row.DeletedAt.Time
		actor.DeletedAt = &deletedAt
	}
	return actor, nil
}
