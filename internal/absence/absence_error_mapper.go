package absence

import (
	"context"
	"errors"
	"strings"

	absenceerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates storage failures into the absence error
// taxonomy. Serialization aborts, deadlocks and lock timeouts all become the
// retryable booking conflict: the caller cannot tell losing the race apart
// from seeing the winner's row, and should simply retry.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return absenceerrors.ErrAbsenceNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.ErrBusy
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return absenceerrors.ErrBookingConflict
		case "55P03": // lock_not_available (lock_timeout expired)
			return absenceerrors.ErrBookingConflict
		case "57014": // query_canceled (statement timeout or context cancel)
			return apperror.ErrBusy
		case "23505": // unique_violation (booking reference)
			return absenceerrors.ErrBookingConflict
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "could not serialize access") ||
		strings.Contains(errMsg, "deadlock detected") {
		return absenceerrors.ErrBookingConflict
	}

	return err
}
