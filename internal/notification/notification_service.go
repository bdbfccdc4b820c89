package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	notificationerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/notification/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// HandleAbsenceRequested dan HandleAbsenceDecided dipanggil consumer;
	// eventID datang dari header Kafka dan jadi kunci dedup.
	HandleAbsenceRequested(ctx context.Context, eventID string, evt events.AbsenceRequestedEvent) error
	HandleAbsenceDecided(ctx context.Context, eventID string, evt events.AbsenceDecidedEvent) error

	List(ctx context.Context, organizationID, recipientID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, organizationID, recipientID, notificationID string) error
}

type service struct {
	repo   Repository
	users  user.Repository
	email  EmailSender
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, email EmailSender, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if email == nil {
		email = NewNoopEmailSender(l)
	}
	return &service{repo: repo, users: users, email: email, logger: l}
}

// HandleAbsenceRequested membuat satu notifikasi per manager di department
// pemohon. Duplikat (redelivery) di-skip, email hanya dikirim untuk baris
// yang benar-benar baru.
func (s *service) HandleAbsenceRequested(ctx context.Context, eventID string, evt events.AbsenceRequestedEvent) error {
	if eventID == "" {
		return notificationerrors.ErrMissingEventID
	}

	owner, err := s.users.FindByID(ctx, evt.OrganizationID, evt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Pemohon sudah tidak ada; tidak ada yang perlu dikabari
			s.logger.Warn("absence requester no longer exists, dropping event",
				zap.String("event_id", eventID),
				zap.String("user_id", evt.UserID),
			)
			return nil
		}
		return err
	}

	managers, err := s.users.FindManagersByDepartment(ctx, evt.OrganizationID, owner.Department)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Absence request %s", evt.Reference)
	body := fmt.Sprintf("%s requested time off from %s to %s.", owner.FullName, evt.StartDate, evt.EndDate)

	for _, m := range managers {
		if m.ID == owner.ID {
			// Manager yang mengajukan tidak perlu dikabari soal dirinya sendiri
			continue
		}

		row := &Notification{
			ID:             uuid.New(),
			OrganizationID: owner.OrganizationID,
			RecipientID:    m.ID,
			EventID:        eventID,
			Kind:           KindAbsenceRequested,
			Title:          title,
			Body:           body,
		}

		if err := s.repo.Create(ctx, row); err != nil {
			if isDuplicateNotification(err) {
				s.logger.Warn("notification already recorded for event, skipping",
					zap.String("event_id", eventID),
					zap.String("recipient_id", m.ID.String()),
				)
				continue
			}
			return err
		}

		// Gagal kirim email tidak membatalkan notifikasinya
		if err := s.email.SendAbsenceRequested(m.Email, m.FullName, owner.FullName, evt.Reference, evt.StartDate, evt.EndDate); err != nil {
			s.logger.Warn("absence requested email failed",
				zap.String("recipient_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// HandleAbsenceDecided mengabari pemilik absence soal keputusan manager.
func (s *service) HandleAbsenceDecided(ctx context.Context, eventID string, evt events.AbsenceDecidedEvent) error {
	if eventID == "" {
		return notificationerrors.ErrMissingEventID
	}

	owner, err := s.users.FindByID(ctx, evt.OrganizationID, evt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("absence owner no longer exists, dropping event",
				zap.String("event_id", eventID),
				zap.String("user_id", evt.UserID),
			)
			return nil
		}
		return err
	}

	status := strings.ToLower(evt.Status)
	row := &Notification{
		ID:             uuid.New(),
		OrganizationID: owner.OrganizationID,
		RecipientID:    owner.ID,
		EventID:        eventID,
		Kind:           KindAbsenceDecided,
		Title:          fmt.Sprintf("Absence request %s %s", evt.Reference, status),
		Body:           fmt.Sprintf("Your absence request %s has been %s.", evt.Reference, status),
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if isDuplicateNotification(err) {
			s.logger.Warn("notification already recorded for event, skipping",
				zap.String("event_id", eventID),
				zap.String("recipient_id", owner.ID.String()),
			)
			return nil
		}
		return err
	}

	if err := s.email.SendAbsenceDecided(owner.Email, owner.FullName, evt.Reference, status); err != nil {
		s.logger.Warn("absence decided email failed",
			zap.String("recipient_id", owner.ID.String()),
			zap.Error(err),
		)
	}

	return nil
}

func (s *service) List(ctx context.Context, organizationID, recipientID string) ([]NotificationResponse, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, notificationerrors.ErrInvalidRecipientID
	}

	rows, err := s.repo.FindByRecipient(ctx, organizationID, recipientID)
	if err != nil {
		return nil, err
	}

	res := make([]NotificationResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) MarkRead(ctx context.Context, organizationID, recipientID, notificationID string) error {
	if _, err := uuid.Parse(notificationID); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}

	err := s.repo.MarkRead(ctx, organizationID, recipientID, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notificationerrors.ErrNotificationNotFound
	}
	return err
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func isDuplicateNotification(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_notification_event_recipient"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_notification_event_recipient")
}
