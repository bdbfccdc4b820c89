package absence_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence"
	absenceerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/daterange"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAbsenceRepository struct {
	withTxFn            func(tx *sql.Tx) absence.Repository
	findByIDFn          func(ctx context.Context, organizationID, id string) (*absence.Absence, error)
	findByIDForUpdateFn func(ctx context.Context, organizationID, id string) (*absence.Absence, error)
	findByUserIDFn      func(ctx context.Context, organizationID, userID string, statuses ...absence.Status) ([]absence.Absence, error)
	findOverlappingFn   func(ctx context.Context, organizationID, userID string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error)
	findUpcomingFn      func(ctx context.Context, organizationID string, limit int) ([]absence.Absence, error)
	saveFn              func(ctx context.Context, a *absence.Absence) error
	deleteFn            func(ctx context.Context, a *absence.Absence) error
	getStatisticsFn     func(ctx context.Context, organizationID, userID string) (absence.Statistics, error)
	findActorFn         func(ctx context.Context, organizationID, userID string) (*absence.Actor, error)
}

func (f *fakeAbsenceRepository) WithTx(tx *sql.Tx) absence.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAbsenceRepository) FindByID(ctx context.Context, organizationID, id string) (*absence.Absence, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, organizationID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAbsenceRepository) FindByIDForUpdate(ctx context.Context, organizationID, id string) (*absence.Absence, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, organizationID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAbsenceRepository) FindByUserID(ctx context.Context, organizationID, userID string, statuses ...absence.Status) ([]absence.Absence, error) {
	if f.findByUserIDFn != nil {
		return f.findByUserIDFn(ctx, organizationID, userID, statuses...)
	}
	return nil, nil
}

func (f *fakeAbsenceRepository) FindOverlapping(ctx context.Context, organizationID, userID string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, organizationID, userID, rng, excludeID)
	}
	return nil, nil
}

func (f *fakeAbsenceRepository) FindUpcoming(ctx context.Context, organizationID string, limit int) ([]absence.Absence, error) {
	if f.findUpcomingFn != nil {
		return f.findUpcomingFn(ctx, organizationID, limit)
	}
	return nil, nil
}

func (f *fakeAbsenceRepository) Save(ctx context.Context, a *absence.Absence) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, a)
	}
	return nil
}

func (f *fakeAbsenceRepository) Delete(ctx context.Context, a *absence.Absence) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, a)
	}
	return nil
}

func (f *fakeAbsenceRepository) GetStatistics(ctx context.Context, organizationID, userID string) (absence.Statistics, error) {
	if f.getStatisticsFn != nil {
		return f.getStatisticsFn(ctx, organizationID, userID)
	}
	return absence.Statistics{}, nil
}

func (f *fakeAbsenceRepository) FindActor(ctx context.Context, organizationID, userID string) (*absence.Actor, error) {
	if f.findActorFn != nil {
		return f.findActorFn(ctx, organizationID, userID)
	}
	return &absence.Actor{
		ID:             uuid.MustParse(userID),
		OrganizationID: uuid.MustParse(organizationID),
		Role:           absence.RoleEmployee,
		Department:     "Engineering",
	}, nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, organizationID, counterType string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, organizationID, counterType string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, organizationID, counterType)
	}
	return 42, nil
}

type absenceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service absence.Service
	repo    *fakeAbsenceRepository
	counter *fakeCounterRepository
}

func setupAbsenceServiceTest(t *testing.T) *absenceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAbsenceRepository{}
	counterRepo := &fakeCounterRepository{}
	svc := absence.NewService(db, repo, counterRepo)

	return &absenceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
	}
}

// expectBookingTx registers the statements every booking transaction issues:
// Begin, the lock_timeout guard, then either Commit or Rollback.
func expectBookingTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func storedAbsence(t *testing.T, organizationID, userID string, startOffset, endOffset int) *absence.Absence {
	t.Helper()
	a, err := absence.NewAbsence(
		uuid.MustParse(organizationID),
		uuid.MustParse(userID),
		mustRange(t, futureDay(startOffset), futureDay(endOffset)),
		"previously booked time away from work",
	)
	assert.NoError(t, err)
	return a
}

func actorFor(id string, role absence.Role, department string) *absence.Actor {
	return &absence.Actor{
		ID:         uuid.MustParse(id),
		Role:       role,
		Department: department,
	}
}

func TestAbsenceService_Create(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	userID := uuid.New().String()

	validReq := func(startOffset, endOffset int) absence.CreateAbsenceRequest {
		return absence.CreateAbsenceRequest{
			StartDate: futureDay(startOffset).Format("2006-01-02"),
			EndDate:   futureDay(endOffset).Format("2006-01-02"),
			Reason:    "attending a family wedding overseas",
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, true)
		req := validReq(10, 14)

		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			assert.Equal(t, organizationID, oid)
			assert.Equal(t, userID, uid)
			return actorFor(userID, absence.RoleEmployee, "Engineering"), nil
		}
		deps.repo.findOverlappingFn = func(ctx context.Context, oid, uid string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error) {
			assert.Nil(t, excludeID)
			assert.Equal(t, req.StartDate, rng.Start().Format("2006-01-02"))
			assert.Equal(t, req.EndDate, rng.End().Format("2006-01-02"))
			return nil, nil
		}
		var saved *absence.Absence
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			saved = a
			return nil
		}

		resp, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, absence.StatusPending, saved.Status)
		assert.Equal(t, "ABS-000042", saved.Reference)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "ABS-000042", resp.Reference)
		assert.Equal(t, string(absence.StatusPending), resp.Status)
		assert.Equal(t, req.StartDate, resp.StartDate)
		assert.Equal(t, req.EndDate, resp.EndDate)
		assert.Equal(t, 5, resp.TotalDays)
		assert.GreaterOrEqual(t, resp.WorkingDays, 3)
		assert.LessOrEqual(t, resp.WorkingDays, 5)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlap returns conflict with blocking booking", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		existing := storedAbsence(t, organizationID, userID, 12, 16)

		deps.repo.findOverlappingFn = func(ctx context.Context, oid, uid string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error) {
			return []absence.Absence{*existing}, nil
		}
		saveCalled := false
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			saveCalled = true
			return nil
		}

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 14))

		assert.Error(t, err)
		assert.False(t, saveCalled)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
		assert.True(t, appErr.Retryable)
		assert.Contains(t, appErr.Message, "PENDING")
		assert.Contains(t, appErr.Message, existing.StartDate.Format("2006-01-02"))
		details, ok := appErr.Details.(absenceerrors.ConflictDetails)
		assert.True(t, ok)
		assert.Equal(t, existing.StartDate.Format("2006-01-02"), details.ConflictingStart)
		assert.Equal(t, existing.EndDate.Format("2006-01-02"), details.ConflictingEnd)
		assert.Equal(t, string(absence.StatusPending), details.ConflictingStatus)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success rejected candidates do not block", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, true)
		rejected := storedAbsence(t, organizationID, userID, 12, 16)
		assert.NoError(t, rejected.Reject(uuid.New()))

		deps.repo.findOverlappingFn = func(ctx context.Context, oid, uid string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error) {
			return []absence.Absence{*rejected}, nil
		}
		saveCalled := false
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			saveCalled = true
			return nil
		}

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 14))

		assert.NoError(t, err)
		assert.True(t, saveCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing organization", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		counterCalled := false
		deps.counter.getNextValueFn = func(ctx context.Context, oid, counterType string) (int64, error) {
			counterCalled = true
			return 1, nil
		}

		_, err := deps.service.Create(ctx, "", userID, validReq(10, 12))

		assert.ErrorIs(t, err, absenceerrors.ErrOrganizationRequired)
		assert.False(t, counterCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid organization id", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, "org-1", userID, validReq(10, 12))

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidOrganizationID)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, organizationID, "user-1", validReq(10, 12))

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidUserID)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		req := absence.CreateAbsenceRequest{
			StartDate: "2026-13-45",
			EndDate:   futureDay(12).Format("2006-01-02"),
			Reason:    "attending a family wedding overseas",
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidDateFormat)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(14, 10))

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidDateRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative span longer than a year", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 10+daterange.MaxSpanDays+1))

		assert.ErrorIs(t, err, absenceerrors.ErrRangeTooLong)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative range entirely in past", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(-10, -5))

		assert.ErrorIs(t, err, absenceerrors.ErrPastDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reason too short", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		req := validReq(10, 12)
		req.Reason = "   nope   "

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrReasonTooShort)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 12))

		assert.ErrorIs(t, err, absenceerrors.ErrUserNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative deactivated user", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			actor := actorFor(userID, absence.RoleEmployee, "Engineering")
			deletedAt := futureDay(-30)
			actor.DeletedAt = &deletedAt
			return actor, nil
		}

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 12))

		assert.ErrorIs(t, err, absenceerrors.ErrUserDeactivated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative counter failure", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		counterErr := errors.New("counter unavailable")
		deps.counter.getNextValueFn = func(ctx context.Context, oid, counterType string) (int64, error) {
			assert.Equal(t, organizationID, oid)
			assert.Equal(t, "absence_reference", counterType)
			return 0, counterErr
		}

		_, err := deps.service.Create(ctx, organizationID, userID, validReq(10, 12))

		assert.ErrorIs(t, err, counterErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

// Storage-level failures must come back as the retryable taxonomy: clients
// retry conflicts and busy signals, they do not parse driver errors.
func TestAbsenceService_Create_StorageFailures(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	userID := uuid.New().String()

	req := absence.CreateAbsenceRequest{
		StartDate: futureDay(10).Format("2006-01-02"),
		EndDate:   futureDay(14).Format("2006-01-02"),
		Reason:    "attending a family wedding overseas",
	}

	t.Run("serialization failure at commit becomes retryable conflict", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
		deps.sqlMock.ExpectCommit().WillReturnError(&pgconn.PgError{
			Code:    "40001",
			Message: "could not serialize access due to read/write dependencies among transactions",
		})

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrBookingConflict)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
		assert.True(t, appErr.Retryable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("lock timeout during overlap check becomes retryable conflict", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.findOverlappingFn = func(ctx context.Context, oid, uid string, rng daterange.DateRange, excludeID *string) ([]absence.Absence, error) {
			return nil, &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrBookingConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deadlock during save becomes retryable conflict", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			return &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrBookingConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate reference becomes retryable conflict", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_absences_reference\""}
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, absenceerrors.ErrBookingConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("context deadline becomes retryable busy", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			return context.DeadlineExceeded
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, apperror.ErrBusy)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.True(t, appErr.Retryable)
		assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown storage error passes through", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)
		storageErr := errors.New("connection reset by peer")
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			return storageErr
		}

		_, err := deps.service.Create(ctx, organizationID, userID, req)

		assert.ErrorIs(t, err, storageErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAbsenceService_Decide(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	managerID := uuid.New().String()
	employeeID := uuid.New().String()

	actorsByID := func(actors map[string]*absence.Actor) func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
		return func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			if a, ok := actors[uid]; ok {
				return a, nil
			}
			return nil, gorm.ErrRecordNotFound
		}
	}

	t.Run("approve success", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			assert.Equal(t, organizationID, oid)
			assert.Equal(t, row.ID.String(), id)
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID:  actorFor(managerID, absence.RoleManager, "Engineering"),
			employeeID: actorFor(employeeID, absence.RoleEmployee, "Engineering"),
		})
		var saved *absence.Absence
		deps.repo.saveFn = func(ctx context.Context, a *absence.Absence) error {
			saved = a
			return nil
		}

		resp, err := deps.service.Approve(ctx, organizationID, managerID, row.ID.String())

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, absence.StatusApproved, saved.Status)
		assert.Equal(t, string(absence.StatusApproved), resp.Status)
		assert.NotNil(t, resp.DecidedBy)
		assert.Equal(t, managerID, *resp.DecidedBy)
		assert.NotNil(t, resp.DecidedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject success", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID:  actorFor(managerID, absence.RoleManager, "Engineering"),
			employeeID: actorFor(employeeID, absence.RoleEmployee, "Engineering"),
		})

		resp, err := deps.service.Reject(ctx, organizationID, managerID, row.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, string(absence.StatusRejected), resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-manager actor", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		coworkerID := uuid.New().String()
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			coworkerID: actorFor(coworkerID, absence.RoleCoworker, "Engineering"),
			employeeID: actorFor(employeeID, absence.RoleEmployee, "Engineering"),
		})

		_, err := deps.service.Approve(ctx, organizationID, coworkerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrApproverRoleRequired)
		assert.Equal(t, absence.StatusPending, row.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative self approval", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, managerID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID: actorFor(managerID, absence.RoleManager, "Engineering"),
		})

		_, err := deps.service.Approve(ctx, organizationID, managerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrSelfApproval)
		assert.Equal(t, absence.StatusPending, row.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative different department", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID:  actorFor(managerID, absence.RoleManager, "Sales"),
			employeeID: actorFor(employeeID, absence.RoleEmployee, "Engineering"),
		})

		_, err := deps.service.Reject(ctx, organizationID, managerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrDifferentDepartment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager without department", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID:  actorFor(managerID, absence.RoleManager, ""),
			employeeID: actorFor(employeeID, absence.RoleEmployee, ""),
		})

		_, err := deps.service.Approve(ctx, organizationID, managerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrDifferentDepartment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		assert.NoError(t, row.Approve(uuid.New()))

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = actorsByID(map[string]*absence.Actor{
			managerID:  actorFor(managerID, absence.RoleManager, "Engineering"),
			employeeID: actorFor(employeeID, absence.RoleEmployee, "Engineering"),
		})

		_, err := deps.service.Reject(ctx, organizationID, managerID, row.ID.String())

		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		assert.Contains(t, appErr.Message, "APPROVED")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative absence not found", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, organizationID, managerID, uuid.New().String())

		assert.ErrorIs(t, err, absenceerrors.ErrAbsenceNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid absence id", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Approve(ctx, organizationID, managerID, "not-a-uuid")

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidAbsenceID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAbsenceService_Delete(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	managerID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("owner deletes own pending", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, a *absence.Absence) error {
			deleted = true
			assert.True(t, a.IsDeleted())
			return nil
		}

		err := deps.service.Delete(ctx, organizationID, employeeID, row.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, absence.StatusPending, row.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("manager deletes approved in own department", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		assert.NoError(t, row.Approve(uuid.MustParse(managerID)))

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			if uid == managerID {
				return actorFor(managerID, absence.RoleManager, "Engineering"), nil
			}
			return actorFor(employeeID, absence.RoleEmployee, "Engineering"), nil
		}

		err := deps.service.Delete(ctx, organizationID, managerID, row.ID.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative owner cannot delete own approved", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		assert.NoError(t, row.Approve(uuid.MustParse(managerID)))

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deleteCalled := false
		deps.repo.deleteFn = func(ctx context.Context, a *absence.Absence) error {
			deleteCalled = true
			return nil
		}

		err := deps.service.Delete(ctx, organizationID, employeeID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrDeleteForbidden)
		assert.False(t, deleteCalled)
		assert.False(t, row.IsDeleted())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager outside department", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			if uid == managerID {
				return actorFor(managerID, absence.RoleManager, "Sales"), nil
			}
			return actorFor(employeeID, absence.RoleEmployee, "Engineering"), nil
		}

		err := deps.service.Delete(ctx, organizationID, managerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrDeleteForbidden)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already deleted", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		assert.NoError(t, row.SoftDelete())

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}

		err := deps.service.Delete(ctx, organizationID, employeeID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrAlreadyDeleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAbsenceService_GetByID(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success self access", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		deps.repo.findByIDFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			assert.Equal(t, organizationID, oid)
			assert.Equal(t, row.ID.String(), id)
			return row, nil
		}

		resp, err := deps.service.GetByID(ctx, organizationID, employeeID, row.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, row.ID.String(), resp.ID)
		assert.Equal(t, employeeID, resp.UserID)
	})

	t.Run("success manager views another user", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		managerID := uuid.New().String()
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		deps.repo.findByIDFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			return actorFor(managerID, absence.RoleManager, "Sales"), nil
		}

		resp, err := deps.service.GetByID(ctx, organizationID, managerID, row.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, row.ID.String(), resp.ID)
	})

	t.Run("negative coworker views another user", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		coworkerID := uuid.New().String()
		row := storedAbsence(t, organizationID, employeeID, 10, 12)
		deps.repo.findByIDFn = func(ctx context.Context, oid, id string) (*absence.Absence, error) {
			return row, nil
		}
		deps.repo.findActorFn = func(ctx context.Context, oid, uid string) (*absence.Actor, error) {
			return actorFor(coworkerID, absence.RoleCoworker, "Engineering"), nil
		}

		_, err := deps.service.GetByID(ctx, organizationID, coworkerID, row.ID.String())

		assert.ErrorIs(t, err, absenceerrors.ErrViewForbidden)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, organizationID, employeeID, uuid.New().String())

		assert.ErrorIs(t, err, absenceerrors.ErrAbsenceNotFound)
	})
}

func TestAbsenceService_ListForUser(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success lists own", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		first := storedAbsence(t, organizationID, employeeID, 10, 12)
		second := storedAbsence(t, organizationID, employeeID, 20, 22)
		deps.repo.findByUserIDFn = func(ctx context.Context, oid, uid string, statuses ...absence.Status) ([]absence.Absence, error) {
			assert.Equal(t, organizationID, oid)
			assert.Equal(t, employeeID, uid)
			assert.Empty(t, statuses)
			return []absence.Absence{*first, *second}, nil
		}

		resp, err := deps.service.ListForUser(ctx, organizationID, employeeID, employeeID)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, first.ID.String(), resp[0].ID)
	})

	t.Run("negative employee lists someone else", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		listCalled := false
		deps.repo.findByUserIDFn = func(ctx context.Context, oid, uid string, statuses ...absence.Status) ([]absence.Absence, error) {
			listCalled = true
			return nil, nil
		}

		_, err := deps.service.ListForUser(ctx, organizationID, employeeID, uuid.New().String())

		assert.ErrorIs(t, err, absenceerrors.ErrViewForbidden)
		assert.False(t, listCalled)
	})

	t.Run("negative invalid target user id", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListForUser(ctx, organizationID, employeeID, "someone")

		assert.ErrorIs(t, err, absenceerrors.ErrInvalidUserID)
	})
}

func TestAbsenceService_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()

	t.Run("success with default limit", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		row := storedAbsence(t, organizationID, uuid.New().String(), 5, 7)
		assert.NoError(t, row.Approve(uuid.New()))
		deps.repo.findUpcomingFn = func(ctx context.Context, oid string, limit int) ([]absence.Absence, error) {
			assert.Equal(t, 10, limit)
			return []absence.Absence{*row}, nil
		}

		resp, err := deps.service.ListUpcoming(ctx, organizationID, 0)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, string(absence.StatusApproved), resp[0].Status)
	})

	t.Run("success clamps oversized limit", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findUpcomingFn = func(ctx context.Context, oid string, limit int) ([]absence.Absence, error) {
			assert.Equal(t, 50, limit)
			return nil, nil
		}

		_, err := deps.service.ListUpcoming(ctx, organizationID, 500)

		assert.NoError(t, err)
	})

	t.Run("negative missing organization", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListUpcoming(ctx, "", 10)

		assert.ErrorIs(t, err, absenceerrors.ErrOrganizationRequired)
	})
}

func TestAbsenceService_GetStatistics(t *testing.T) {
	ctx := context.Background()
	organizationID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success self", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.getStatisticsFn = func(ctx context.Context, oid, uid string) (absence.Statistics, error) {
			assert.Equal(t, employeeID, uid)
			return absence.Statistics{TotalDays: 14, ApprovedDays: 9, PendingRequests: 1, RejectedRequests: 2}, nil
		}

		stats, err := deps.service.GetStatistics(ctx, organizationID, employeeID, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, 14, stats.TotalDays)
		assert.Equal(t, 9, stats.ApprovedDays)
		assert.Equal(t, 1, stats.PendingRequests)
		assert.Equal(t, 2, stats.RejectedRequests)
	})

	t.Run("negative employee requests someone else's", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetStatistics(ctx, organizationID, employeeID, uuid.New().String())

		assert.ErrorIs(t, err, absenceerrors.ErrViewForbidden)
	})
}
