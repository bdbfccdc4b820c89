package absence

import (
	"strings"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/daterange"
	absenceerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

const (
	ReasonMinLength = 10
	ReasonMaxLength = 500
)

type Absence struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_org_status"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_user_dates"`

	Reference string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_absences_reference"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_absences_user_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_absences_user_dates"`
	Reason    string    `gorm:"type:text;not null"`

	Status      Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_absences_org_status"`
	TotalDays   int    `gorm:"type:int;not null;default:1"`
	WorkingDays int    `gorm:"type:int;not null;default:0"`

	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_absences_deleted_at"`
}

// NewAbsence builds a PENDING absence, enforcing reason bounds and rejecting
// ranges that lie entirely in the past. Ranges that started earlier but end
// today or later are accepted.
func NewAbsence(organizationID, userID uuid.UUID, rng daterange.DateRange, reason string) (*Absence, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < ReasonMinLength {
		return nil, absenceerrors.ErrReasonTooShort
	}
	if len(reason) > ReasonMaxLength {
		return nil, absenceerrors.ErrReasonTooLong
	}
	if rng.IsInPast() {
		return nil, absenceerrors.ErrPastDate
	}

	return &Absence{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		StartDate:      rng.Start(),
		EndDate:        rng.End(),
		Reason:         reason,
		Status:         StatusPending,
		TotalDays:      rng.TotalDays(),
		WorkingDays:    rng.WorkingDays(),
	}, nil
}

// Range rebuilds the value type from the stored bounds. Bounds were validated
// at construction, so the error case cannot occur for rows this code created.
func (a *Absence) Range() daterange.DateRange {
	rng, _ := daterange.New(a.StartDate, a.EndDate)
	return rng
}

func (a *Absence) IsDeleted() bool {
	return a.DeletedAt.Valid
}

// Approve transitions PENDING -> APPROVED. Terminal states are final.
func (a *Absence) Approve(decidedBy uuid.UUID) error {
	return a.decide(StatusApproved, decidedBy)
}

// Reject transitions PENDING -> REJECTED. Terminal states are final.
func (a *Absence) Reject(decidedBy uuid.UUID) error {
	return a.decide(StatusRejected, decidedBy)
}

func (a *Absence) decide(next Status, decidedBy uuid.UUID) error {
	if a.IsDeleted() {
		return absenceerrors.ErrAbsenceDeleted
	}
	if a.Status != StatusPending {
		return absenceerrors.InvalidTransition(string(a.Status))
	}

	now := time.Now().UTC()
	a.Status = next
	a.DecidedBy = &decidedBy
	a.DecidedAt = &now
	a.UpdatedAt = now
	return nil
}

// SoftDelete marks the absence deleted without touching its status.
func (a *Absence) SoftDelete() error {
	if a.IsDeleted() {
		return absenceerrors.ErrAlreadyDeleted
	}
	a.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
	return nil
}

// OverlapsWith reports whether two absences block each other. Deleted rows and
// REJECTED counterparts never block. Callers must pre-filter candidates to the
// same user; this predicate does not compare owners.
func (a *Absence) OverlapsWith(other *Absence) bool {
	if a.IsDeleted() || other.IsDeleted() {
		return false
	}
	if other.Status == StatusRejected {
		return false
	}
	return a.Range().Overlaps(other.Range())
}
