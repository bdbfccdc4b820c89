package organization

import (
	"errors"
	"strings"

	organizationerrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/organization/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return organizationerrors.ErrOrganizationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Satu-satunya unique index di organizations adalah slug
		if pgErr.Code == "23505" {
			return organizationerrors.ErrSlugAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_organization_slug") {
		return organizationerrors.ErrSlugAlreadyExists
	}

	return err
}
