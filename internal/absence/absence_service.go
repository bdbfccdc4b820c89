package absence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	absenceerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/daterange"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/messaging/kafka"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/contextutil"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// bookingTimeout bounds the whole booking transaction; expiry surfaces
	// as a retryable busy error, never as a hung request.
	bookingTimeout = 5 * time.Second

	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organizationID, userID string, req CreateAbsenceRequest) (AbsenceResponse, error)
	GetByID(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error)
	ListForUser(ctx context.Context, organizationID, actorID, targetUserID string) ([]AbsenceResponse, error)
	ListUpcoming(ctx context.Context, organizationID string, limit int) ([]AbsenceResponse, error)
	Approve(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error)
	Reject(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error)
	Delete(ctx context.Context, organizationID, actorID, id string) error
	GetStatistics(ctx context.Context, organizationID, actorID, targetUserID string) (Statistics, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		logger:  l,
	}
}

// Create books a new absence. The actor load, the overlap check and the
// insert all run inside one SERIALIZABLE transaction: under weaker isolation
// two concurrent requests can each read "no overlap" and then both commit,
// the classic write-skew anomaly. A losing transaction aborts at commit and
// is translated into the same conflict error an ordinary overlap produces.
func (s *service) Create(ctx context.Context, organizationID, userID string, req CreateAbsenceRequest) (AbsenceResponse, error) {
	s.logger.Debug("create absence requested",
		zap.String("organization_id", organizationID),
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if organizationID == "" {
		return AbsenceResponse{}, absenceerrors.ErrOrganizationRequired
	}
	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidOrganizationID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidUserID
	}

	// The reference comes from a separate connection before the booking
	// transaction opens: nothing organization-wide is written inside it, so
	// unrelated bookings never serialize against each other.
	nextVal, err := s.counter.GetNextValue(ctx, organizationID, counter.TypeAbsenceReference)
	if err != nil {
		s.logger.Error("create absence reference generation failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}
	reference := fmt.Sprintf("ABS-%06d", nextVal)

	ctx, cancel := context.WithTimeout(ctx, bookingTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Error("create absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	// Bound the wait on conflicting row locks; expiry maps to the same
	// retryable conflict as a serialization abort.
	if _, err := tx.ExecContext(ctx, "SET LOCAL lock_timeout = '3s'"); err != nil {
		s.logger.Error("create absence lock_timeout failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	qtx := s.repo.WithTx(tx)

	// The requester must exist and be active inside the same transaction
	// that books the absence.
	if _, err := s.loadActor(ctx, qtx, organizationID, userID); err != nil {
		s.logger.Warn("create absence actor load failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	rng, err := daterange.Parse(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create absence invalid range", zap.Error(err))
		return AbsenceResponse{}, mapRangeError(err)
	}

	abs, err := NewAbsence(orgUUID, userUUID, rng, req.Reason)
	if err != nil {
		s.logger.Warn("create absence invalid input", zap.Error(err))
		return AbsenceResponse{}, err
	}
	abs.Reference = reference

	candidates, err := qtx.FindOverlapping(ctx, organizationID, userID, rng, nil)
	if err != nil {
		s.logger.Error("create absence overlap check failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}
	for i := range candidates {
		if abs.OverlapsWith(&candidates[i]) {
			s.logger.Warn("create absence overlap detected",
				zap.String("user_id", userID),
				zap.String("requested", rng.String()),
				zap.String("conflicting", candidates[i].Range().String()),
				zap.String("conflicting_status", string(candidates[i].Status)),
			)
			return AbsenceResponse{}, absenceerrors.OverlapConflict(candidates[i].Range(), string(candidates[i].Status))
		}
	}

	if err := qtx.Save(ctx, abs); err != nil {
		s.logger.Error("create absence persist failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	event := events.AbsenceRequestedEvent{
		EventType:      "absence_requested",
		RequestID:      contextutil.GetRequestID(ctx),
		AbsenceID:      abs.ID.String(),
		OrganizationID: organizationID,
		UserID:         userID,
		Reference:      abs.Reference,
		StartDate:      abs.StartDate.Format("2006-01-02"),
		EndDate:        abs.EndDate.Format("2006-01-02"),
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.queueOutboxEvent(ctx, tx, abs.ID.String(), event.EventType, events.AbsenceRequestedTopic, event); err != nil {
		s.logger.Error("create absence outbox persist failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	// A lost race against a concurrent booking surfaces here: serializable
	// isolation aborts the second committer with a serialization failure.
	if err := tx.Commit(); err != nil {
		s.logger.Warn("create absence commit failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create absence success",
		zap.String("absence_id", abs.ID.String()),
		zap.String("reference", abs.Reference),
		zap.String("range", rng.String()),
	)
	return mapToResponse(*abs), nil
}

func (s *service) GetByID(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error) {
	if organizationID == "" {
		return AbsenceResponse{}, absenceerrors.ErrOrganizationRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}

	actor, err := s.loadActor(ctx, s.repo, organizationID, actorID)
	if err != nil {
		return AbsenceResponse{}, err
	}

	abs, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	if !CanViewForUser(*actor, abs.UserID) {
		return AbsenceResponse{}, absenceerrors.ErrViewForbidden
	}

	return mapToResponse(*abs), nil
}

func (s *service) ListForUser(ctx context.Context, organizationID, actorID, targetUserID string) ([]AbsenceResponse, error) {
	if organizationID == "" {
		return nil, absenceerrors.ErrOrganizationRequired
	}
	targetUUID, err := uuid.Parse(targetUserID)
	if err != nil {
		return nil, absenceerrors.ErrInvalidUserID
	}

	actor, err := s.loadActor(ctx, s.repo, organizationID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanViewForUser(*actor, targetUUID) {
		return nil, absenceerrors.ErrViewForbidden
	}

	rows, err := s.repo.FindByUserID(ctx, organizationID, targetUserID)
	if err != nil {
		s.logger.Error("list absences failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListUpcoming(ctx context.Context, organizationID string, limit int) ([]AbsenceResponse, error) {
	if organizationID == "" {
		return nil, absenceerrors.ErrOrganizationRequired
	}
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	rows, err := s.repo.FindUpcoming(ctx, organizationID, limit)
	if err != nil {
		s.logger.Error("list upcoming absences failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) Approve(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error) {
	return s.decide(ctx, organizationID, actorID, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, organizationID, actorID, id string) (AbsenceResponse, error) {
	return s.decide(ctx, organizationID, actorID, id, StatusRejected)
}

// decide runs the shared approve/reject workflow. Default isolation is
// enough here: the row lock taken by FindByIDForUpdate prevents two
// decisions racing on the same absence, and no invariant is re-derived from
// a multi-row read.
func (s *service) decide(ctx context.Context, organizationID, actorID, id string, next Status) (AbsenceResponse, error) {
	s.logger.Debug("decide absence requested",
		zap.String("organization_id", organizationID),
		zap.String("actor_id", actorID),
		zap.String("absence_id", id),
		zap.String("decision", string(next)),
	)

	if organizationID == "" {
		return AbsenceResponse{}, absenceerrors.ErrOrganizationRequired
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	abs, err := qtx.FindByIDForUpdate(ctx, organizationID, id)
	if err != nil {
		s.logger.Warn("decide absence load failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	actor, err := s.loadActor(ctx, qtx, organizationID, actorID)
	if err != nil {
		return AbsenceResponse{}, err
	}
	owner, err := s.loadOwner(ctx, qtx, organizationID, abs.UserID)
	if err != nil {
		return AbsenceResponse{}, err
	}

	// The checks are ordered so the user sees the most specific denial:
	// role first, then self-approval, then department mismatch.
	switch {
	case !CanApprove(*actor):
		return AbsenceResponse{}, absenceerrors.ErrApproverRoleRequired
	case actor.ID == owner.ID:
		return AbsenceResponse{}, absenceerrors.ErrSelfApproval
	case !CanApproveThisAbsence(*actor, *owner):
		return AbsenceResponse{}, absenceerrors.ErrDifferentDepartment
	}

	if next == StatusApproved {
		err = abs.Approve(actor.ID)
	} else {
		err = abs.Reject(actor.ID)
	}
	if err != nil {
		s.logger.Warn("decide absence transition rejected",
			zap.String("absence_id", id),
			zap.String("current_status", string(abs.Status)),
			zap.Error(err),
		)
		return AbsenceResponse{}, err
	}

	if err := qtx.Save(ctx, abs); err != nil {
		s.logger.Error("decide absence persist failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	event := events.AbsenceDecidedEvent{
		EventType:      "absence_decided",
		RequestID:      contextutil.GetRequestID(ctx),
		AbsenceID:      abs.ID.String(),
		OrganizationID: organizationID,
		UserID:         abs.UserID.String(),
		Reference:      abs.Reference,
		Status:         string(abs.Status),
		DecidedBy:      actor.ID.String(),
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.queueOutboxEvent(ctx, tx, abs.ID.String(), event.EventType, events.AbsenceDecidedTopic, event); err != nil {
		s.logger.Error("decide absence outbox persist failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide absence commit failed", zap.Error(err))
		return AbsenceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("decide absence success",
		zap.String("absence_id", id),
		zap.String("status", string(abs.Status)),
		zap.String("decided_by", actor.ID.String()),
	)
	return mapToResponse(*abs), nil
}

func (s *service) Delete(ctx context.Context, organizationID, actorID, id string) error {
	s.logger.Debug("delete absence requested",
		zap.String("organization_id", organizationID),
		zap.String("actor_id", actorID),
		zap.String("absence_id", id),
	)

	if organizationID == "" {
		return absenceerrors.ErrOrganizationRequired
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return absenceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return absenceerrors.ErrInvalidAbsenceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete absence begin tx failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	abs, err := qtx.FindByIDForUpdate(ctx, organizationID, id)
	if err != nil {
		s.logger.Warn("delete absence load failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	actor, err := s.loadActor(ctx, qtx, organizationID, actorID)
	if err != nil {
		return err
	}
	owner, err := s.loadOwner(ctx, qtx, organizationID, abs.UserID)
	if err != nil {
		return err
	}

	if !CanDelete(*actor, *owner, abs.Status) {
		return absenceerrors.ErrDeleteForbidden
	}

	if err := abs.SoftDelete(); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, abs); err != nil {
		s.logger.Error("delete absence persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete absence commit failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete absence success",
		zap.String("absence_id", id),
		zap.String("deleted_by", actorID),
	)
	return nil
}

func (s *service) GetStatistics(ctx context.Context, organizationID, actorID, targetUserID string) (Statistics, error) {
	if organizationID == "" {
		return Statistics{}, absenceerrors.ErrOrganizationRequired
	}
	targetUUID, err := uuid.Parse(targetUserID)
	if err != nil {
		return Statistics{}, absenceerrors.ErrInvalidUserID
	}

	actor, err := s.loadActor(ctx, s.repo, organizationID, actorID)
	if err != nil {
		return Statistics{}, err
	}
	if !CanViewForUser(*actor, targetUUID) {
		return Statistics{}, absenceerrors.ErrViewForbidden
	}

	stats, err := s.repo.GetStatistics(ctx, organizationID, targetUserID)
	if err != nil {
		s.logger.Error("absence statistics failed", zap.Error(err))
		return Statistics{}, mapRepositoryError(err)
	}
	return stats, nil
}

func (s *service) loadActor(ctx context.Context, repo Repository, organizationID, actorID string) (*Actor, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, absenceerrors.ErrInvalidActorID
	}

	actor, err := repo.FindActor(ctx, organizationID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, absenceerrors.ErrUserNotFound
		}
		return nil, mapRepositoryError(err)
	}
	if actor.IsDeleted() {
		return nil, absenceerrors.ErrUserDeactivated
	}
	return actor, nil
}

// loadOwner loads the absence owner. Unlike loadActor it tolerates a
// deactivated user: decisions on a departed employee's requests stay
// possible.
func (s *service) loadOwner(ctx context.Context, repo Repository, organizationID string, userID uuid.UUID) (*Actor, error) {
	owner, err := repo.FindActor(ctx, organizationID, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, absenceerrors.ErrUserNotFound
		}
		return nil, mapRepositoryError(err)
	}
	return owner, nil
}

func (s *service) queueOutboxEvent(ctx context.Context, tx *sql.Tx, aggregateID, eventType, topic string, event any) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "absence",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapRangeError(err error) error {
	switch {
	case errors.Is(err, daterange.ErrEndBeforeStart):
		return absenceerrors.ErrInvalidDateRange
	case errors.Is(err, daterange.ErrSpanTooLong):
		return absenceerrors.ErrRangeTooLong
	default:
		return absenceerrors.ErrInvalidDateFormat
	}
}
