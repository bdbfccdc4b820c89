package absence

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleCoworker Role = "COWORKER"
)

// Actor is the slice of a user the absence rules care about. The full profile
// lives in the user module; repositories project it down to this shape.
type Actor struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
	Department     string
	DeletedAt      *time.Time
}

func (a Actor) IsDeleted() bool {
	return a.DeletedAt != nil
}

// The policy functions below are pure: no I/O, no ambient session state.
// They return plain booleans; orchestrators translate a false into a
// Forbidden error with a reason the user can act on.

// CanApprove grants the approver role check only. Department scoping happens
// per absence in CanApproveThisAbsence.
func CanApprove(actor Actor) bool {
	return actor.Role == RoleManager
}

// CanApproveThisAbsence allows a manager to decide an absence owned by
// someone else in the same department. Self-approval is never allowed, even
// when the manager is the only one in the department. An unset department on
// either side denies: it never acts as a wildcard.
func CanApproveThisAbsence(actor, owner Actor) bool {
	return actor.Role == RoleManager &&
		actor.ID != owner.ID &&
		sameDepartment(actor, owner)
}

// CanDelete lets owners remove their own PENDING or REJECTED requests, and
// managers remove any absence (APPROVED included) within their department.
func CanDelete(actor, owner Actor, status Status) bool {
	if actor.ID == owner.ID && (status == StatusPending || status == StatusRejected) {
		return true
	}
	return actor.Role == RoleManager && sameDepartment(actor, owner)
}

// CanViewForUser allows self-access and gives managers visibility over any
// user's absences.
func CanViewForUser(actor Actor, targetUserID uuid.UUID) bool {
	return actor.ID == targetUserID || actor.Role == RoleManager
}

func sameDepartment(a, b Actor) bool {
	return a.Department != "" && a.Department == b.Department
}
