package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/messaging/kafka"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/contextutil"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/counter"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/fieldcrypt"
	usererrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const DirectoryKeyPrefix = "users:directory:"

func GetDirectoryKey(organizationID string) string {
	return DirectoryKeyPrefix + organizationID
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, organizationID string, req RegisterUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, organizationID, id string) (UserResponse, error)
	GetDirectory(ctx context.Context, organizationID string) ([]DirectoryEntry, error)
	Update(ctx context.Context, organizationID, id string, req UpdateUserRequest) (UserResponse, error)
	Deactivate(ctx context.Context, organizationID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	crypter *fieldcrypt.Crypter
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	crypter *fieldcrypt.Crypter,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, crypter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	crypter *fieldcrypt.Crypter,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		crypter: crypter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Register(
	ctx context.Context,
	organizationID string,
	req RegisterUserRequest,
) (UserResponse, error) {
	// Logger dari middleware sudah membawa field request_id dan user_id.
	l := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	l.Debug("register user requested",
		zap.String("organization_id", organizationID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if organizationID == "" {
		return UserResponse{}, usererrors.ErrOrganizationRequired
	}
	orgUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidOrganizationID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("register user hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, organizationID, counter.TypeStaffNumber)
	if err != nil {
		l.Error("register user generate staff number failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}
	staffNumber := fmt.Sprintf("STF-%06d", nextVal)

	encryptedPhone := ""
	if req.Phone != "" {
		encryptedPhone, err = s.crypter.Encrypt(req.Phone)
		if err != nil {
			l.Error("register user encrypt phone failed", zap.Error(err))
			return UserResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("register user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	u := &User{
		ID:             uuid.New(),
		OrganizationID: orgUUID,
		StaffNumber:    staffNumber,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		FullName:       req.FullName,
		Role:           req.Role,
		Department:     req.Department,
		Phone:          encryptedPhone,
		Active:         true,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, u); err != nil {
		l.Error("register user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	event := events.UserCreatedEvent{
		EventType:      "user_created",
		RequestID:      rid, // Propagasi ke async events
		UserID:         u.ID.String(),
		OrganizationID: organizationID,
		Email:          u.Email,
		Role:           u.Role,
		OccurredAt:     time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			l.Error("marshal event failed", zap.Error(err))
			return UserResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "user",
			AggregateID:   u.ID.String(),
			EventType:     event.EventType,
			Topic:         events.UserCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			l.Error("register user outbox persist failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			return UserResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("register user commit failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateDirectory(ctx, organizationID)

	l.Info("register user success",
		zap.String("user_id", u.ID.String()),
		zap.String("staff_number", staffNumber),
	)

	return s.toResponse(*u), nil
}

func (s *service) GetByID(ctx context.Context, organizationID, id string) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	l.Debug("get user by id requested",
		zap.String("organization_id", organizationID),
		zap.String("user_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		l.Error("get user by id failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	return s.toResponse(*u), nil
}

func (s *service) GetDirectory(ctx context.Context, organizationID string) ([]DirectoryEntry, error) {
	cacheKey := GetDirectoryKey(organizationID)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []DirectoryEntry
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight biar burst traffic directory tidak dobel query ke DB
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		users, err := s.repo.FindAllByOrganization(ctx, organizationID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]DirectoryEntry, len(users))
		for i, u := range users {
			resp[i] = toDirectoryEntry(u)
		}

		// 3. Simpan ke Redis (TTL 1 jam)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]DirectoryEntry), nil
}

func (s *service) Update(
	ctx context.Context,
	organizationID, id string,
	req UpdateUserRequest,
) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	l.Debug("update user requested",
		zap.String("organization_id", organizationID),
		zap.String("user_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		l.Error("update user fetch existing failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	u.FullName = req.FullName
	u.Department = req.Department
	u.Phone = ""
	if req.Phone != "" {
		encrypted, err := s.crypter.Encrypt(req.Phone)
		if err != nil {
			l.Error("update user encrypt phone failed", zap.Error(err))
			return UserResponse{}, err
		}
		u.Phone = encrypted
	}

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("update user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateDirectory(ctx, organizationID)

	l.Info("update user success", zap.String("user_id", id))

	return s.toResponse(*u), nil
}

func (s *service) Deactivate(ctx context.Context, organizationID, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	l.Debug("deactivate user requested",
		zap.String("organization_id", organizationID),
		zap.String("user_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	if err := s.repo.Deactivate(ctx, organizationID, id); err != nil {
		l.Error("deactivate user failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateDirectory(ctx, organizationID)

	l.Info("deactivate user success", zap.String("user_id", id))
	return nil
}

func (s *service) invalidateDirectory(ctx context.Context, organizationID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetDirectoryKey(organizationID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate directory cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

// toResponse decrypts the phone column. A corrupt or unreadable phone does
// not make the whole profile unreadable: it is logged and left empty.
func (s *service) toResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		StaffNumber: u.StaffNumber,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		Department:  u.Department,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.Phone != "" {
		phone, err := s.crypter.Decrypt(u.Phone)
		if err != nil {
			s.logger.Warn("user phone decrypt failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		} else {
			resp.Phone = phone
		}
	}
	return resp
}

func toDirectoryEntry(u User) DirectoryEntry {
	return DirectoryEntry{
		ID:          u.ID.String(),
		StaffNumber: u.StaffNumber,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Department:  u.Department,
	}
}
