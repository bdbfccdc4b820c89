package absenceerrors

import (
	"fmt"
	"net/http"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/daterange"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"
)

var (
	ErrOrganizationRequired = apperror.New(
		apperror.CodeUnauthorized,
		"organization context is required",
		http.StatusUnauthorized,
	)
	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidAbsenceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid absence id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrRangeTooLong = apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("date range cannot exceed %d days", daterange.MaxSpanDays),
		http.StatusBadRequest,
	)
	ErrPastDate = apperror.New(
		apperror.CodeInvalidInput,
		"cannot request an absence entirely in the past",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"reason cannot exceed 500 characters",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrUserDeactivated = apperror.New(
		apperror.CodeInvalidState,
		"user account is deactivated",
		http.StatusBadRequest,
	)
	ErrAbsenceNotFound = apperror.New(
		apperror.CodeNotFound,
		"absence not found",
		http.StatusNotFound,
	)
	ErrApproverRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"only managers can approve or reject absences",
		http.StatusForbidden,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"managers cannot decide their own absence",
		http.StatusForbidden,
	)
	ErrDifferentDepartment = apperror.New(
		apperror.CodeForbidden,
		"managers can only decide absences within their own department",
		http.StatusForbidden,
	)
	ErrDeleteForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to delete this absence",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view absences for this user",
		http.StatusForbidden,
	)
	ErrAbsenceDeleted = apperror.New(
		apperror.CodeInvalidState,
		"absence has been deleted",
		http.StatusBadRequest,
	)
	ErrAlreadyDeleted = apperror.New(
		apperror.CodeInvalidState,
		"absence is already deleted",
		http.StatusBadRequest,
	)
	ErrBookingConflict = apperror.NewRetryable(
		apperror.CodeConflict,
		"absence request conflicts with another request being processed, please retry",
		http.StatusConflict,
	)
)

// InvalidTransition names the current status so the caller sees which terminal
// state blocked the decision.
func InvalidTransition(currentStatus string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("absence is %s and its status can no longer change", currentStatus),
		http.StatusBadRequest,
	)
}

// ConflictDetails is attached to overlap conflicts so clients can render the
// blocking booking without parsing the message.
type ConflictDetails struct {
	ConflictingStart  string `json:"conflicting_start"`
	ConflictingEnd    string `json:"conflicting_end"`
	ConflictingStatus string `json:"conflicting_status"`
}

// OverlapConflict reports the exact range and status that blocked a booking.
// It is retryable for parity with the serialization-failure path: the caller
// cannot tell which of the two produced the conflict.
func OverlapConflict(rng daterange.DateRange, status string) *apperror.AppError {
	e := apperror.NewRetryable(
		apperror.CodeConflict,
		fmt.Sprintf("requested dates conflict with an existing %s absence (%s)", status, rng),
		http.StatusConflict,
	)
	return e.WithDetails(ConflictDetails{
		ConflictingStart:  rng.Start().Format("2006-01-02"),
		ConflictingEnd:    rng.End().Format("2006-01-02"),
		ConflictingStatus: status,
	})
}
