package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	feedbackerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/feedback/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=feedback_service.go -destination=mock/feedback_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organizationID, authorID string, req CreateFeedbackRequest) (FeedbackResponse, error)
	ListReceived(ctx context.Context, organizationID, recipientID string) ([]FeedbackResponse, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	polisher Polisher
	logger   *zap.Logger
}

func NewService(repo Repository, users user.Repository, polisher Polisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("feedback.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("feedback.service")
	}
	if polisher == nil {
		polisher = PassthroughPolisher{}
	}
	return &service{repo: repo, users: users, polisher: polisher, logger: l}
}

func (s *service) Create(ctx context.Context, organizationID, authorID string, req CreateFeedbackRequest) (FeedbackResponse, error) {
	authorUID, err := uuid.Parse(authorID)
	if err != nil {
		return FeedbackResponse{}, feedbackerrors.ErrInvalidAuthorID
	}
	recipientUID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return FeedbackResponse{}, feedbackerrors.ErrInvalidRecipientID
	}
	if recipientUID == authorUID {
		return FeedbackResponse{}, feedbackerrors.ErrSelfFeedback
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return FeedbackResponse{}, feedbackerrors.ErrEmptyBody
	}

	// Penerima harus user aktif di organization yang sama
	if _, err := s.users.FindByID(ctx, organizationID, req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeedbackResponse{}, feedbackerrors.ErrRecipientNotFound
		}
		return FeedbackResponse{}, err
	}

	// Feedback tidak boleh hilang gara-gara polisher: kalau gagal atau
	// hasilnya kosong, simpan body mentah apa adanya.
	polished, err := s.polisher.Polish(ctx, body)
	if err != nil {
		s.logger.Warn("polisher failed, storing raw body", zap.Error(err))
		polished = body
	}
	if strings.TrimSpace(polished) == "" {
		polished = body
	}

	row := &Feedback{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(organizationID),
		AuthorID:       authorUID,
		RecipientID:    recipientUID,
		Body:           body,
		PolishedBody:   polished,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return FeedbackResponse{}, err
	}

	s.logger.Info("feedback created",
		zap.String("feedback_id", row.ID.String()),
		zap.String("recipient_id", row.RecipientID.String()),
	)
	return mapToResponse(*row), nil
}

func (s *service) ListReceived(ctx context.Context, organizationID, recipientID string) ([]FeedbackResponse, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, feedbackerrors.ErrInvalidRecipientID
	}

	rows, err := s.repo.FindByRecipient(ctx, organizationID, recipientID)
	if err != nil {
		return nil, err
	}

	res := make([]FeedbackResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(f Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:          f.ID.String(),
		AuthorID:    f.AuthorID.String(),
		RecipientID: f.RecipientID.String(),
		Body:        f.PolishedBody,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
	if f.Author != nil {
		resp.AuthorName = f.Author.FullName
	}
	return resp
}
