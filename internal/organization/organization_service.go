package organization

import (
	"context"
	"regexp"
	"strings"

	organizationerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/organization/errors"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	slugReplacer = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// slugify menurunkan slug dari nama organization: lowercase, karakter
// non-alfanumerik jadi hyphen. Keunikan dijaga oleh unique index, bukan
// suffix acak.
func slugify(name string) string {
	slug := slugReplacer.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 100 {
		slug = strings.Trim(slug[:100], "-")
	}
	return slug
}

//go:generate mockgen -source=organization_service.go -destination=mock/organization_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*CreateOrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error)
}

type service struct {
	repo   Repository
	users  user.Service
	logger *zap.Logger
}

func NewService(repo Repository, users user.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("organization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.service")
	}
	return &service{repo: repo, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateOrganizationRequest) (*CreateOrganizationResponse, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = slugify(req.Name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, organizationerrors.ErrInvalidSlug
	}

	org := &Organization{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(req.Name),
		Slug:   slug,
		Active: true,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, mapRepositoryError(err)
	}

	// Admin pertama lewat register flow biasa (staff number, outbox event).
	// Organization dan user adalah aggregate terpisah, jadi kalau register
	// gagal, organization yang baru dibuat di-rollback manual.
	admin, err := s.users.Register(ctx, org.ID.String(), user.RegisterUserRequest{
		Email:    req.AdminEmail,
		Password: req.AdminPassword,
		FullName: req.AdminFullName,
		Role:     "MANAGER",
	})
	if err != nil {
		if delErr := s.repo.HardDelete(ctx, org.ID); delErr != nil {
			s.logger.Error("failed to roll back organization after admin creation failure",
				zap.String("organization_id", org.ID.String()),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug),
		zap.String("admin_user_id", admin.ID),
	)

	return &CreateOrganizationResponse{
		Organization: *s.toResponse(org),
		Admin:        admin,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.toResponse(org), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	// Slug sengaja immutable: dipakai sebagai handle stabil tenant
	if req.Name != "" {
		org.Name = strings.TrimSpace(req.Name)
	}
	if req.Active != nil {
		org.Active = *req.Active
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.toResponse(org), nil
}

func (s *service) toResponse(org *Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:     org.ID.String(),
		Name:   org.Name,
		Slug:   org.Slug,
		Active: org.Active,
	}
}
