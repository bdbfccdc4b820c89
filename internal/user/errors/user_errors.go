package usererrors

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff number already exists in this organization",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization ID",
		http.StatusBadRequest,
	)

	ErrOrganizationRequired = apperror.New(
		apperror.CodeUnauthorized,
		"Organization context is required",
		http.StatusUnauthorized,
	)

	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid email format",
		http.StatusBadRequest,
	)

	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)

	ErrUserInactive = apperror.New(
		apperror.CodeInvalidState,
		"User account is deactivated",
		http.StatusBadRequest,
	)

	ErrPhoneUnreadable = apperror.New(
		apperror.CodeInternalError,
		"Stored phone number cannot be decrypted",
		http.StatusInternalServerError,
	)
)
