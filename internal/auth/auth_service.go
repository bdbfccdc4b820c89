package auth

import (
	"context"
	"os"
	"time"

	autherrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/auth/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, organizationID, userID string) (*AuthResponse, error)
}

// Accounts live in the users table; auth only verifies credentials and
// mints tokens on top of the user repository.
type service struct {
	users  user.Repository
	logger *zap.Logger
}

func NewService(users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error) {
	// 1. Ambil user (unscoped: organization belum diketahui saat login)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.String("reason", "unknown email"))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// 2. Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", zap.String("email", email), zap.String("reason", "wrong password"))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// 3. Akun nonaktif ditolak setelah password cocok, biar status akun
	// tidak bocor ke orang yang tidak tahu passwordnya
	if !u.Active {
		s.logger.Warn("login rejected", zap.String("user_id", u.ID.String()), zap.String("reason", "account deactivated"))
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	// 4. Generate token pair
	accessToken, err = s.generateToken(u, AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err = s.generateToken(u, RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success",
		zap.String("user_id", u.ID.String()),
		zap.String("organization_id", u.OrganizationID.String()),
		zap.String("role", u.Role),
	)

	return accessToken, refreshToken, s.toResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	organizationID, ok := claims["organization_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(userID); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	// Role dan department diambil ulang dari DB, bukan dari claims lama:
	// promosi atau mutasi department harus kebawa di token baru.
	u, err := s.users.FindByID(ctx, organizationID, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.Active {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	newAccessToken, err := s.generateToken(u, AccessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	newRefreshToken, err := s.generateToken(u, RefreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, s.toResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, organizationID, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, organizationID, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := s.toResponse(u)
	return &resp, nil
}

func (s *service) toResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:             u.ID.String(),
		OrganizationID: u.OrganizationID.String(),
		StaffNumber:    u.StaffNumber,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		Department:     u.Department,
	}
}

// reusable token generator. Department ikut masuk claims supaya team views
// tidak perlu query user lagi di tiap request.
func (s *service) generateToken(u *user.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":         u.ID.String(),
		"organization_id": u.OrganizationID.String(),
		"role":            u.Role,
		"department":      u.Department,
		"exp":             time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
