package organizationerrors

import (
	"net/http"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"
)

var (
	ErrOrganizationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization not found",
		http.StatusNotFound,
	)

	ErrSlugAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Organization slug is already taken",
		http.StatusConflict,
	)

	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization ID",
		http.StatusBadRequest,
	)

	ErrInvalidSlug = apperror.New(
		apperror.CodeInvalidInput,
		"Slug may only contain lowercase letters, digits and hyphens",
		http.StatusBadRequest,
	)
)
