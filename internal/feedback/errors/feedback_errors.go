package feedbackerrors

import (
	"net/http"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"
)

var (
	ErrRecipientNotFound = apperror.New(
		apperror.CodeNotFound,
		"Recipient not found in this organization",
		http.StatusNotFound,
	)

	ErrSelfFeedback = apperror.New(
		apperror.CodeInvalidInput,
		"Feedback cannot be addressed to yourself",
		http.StatusBadRequest,
	)

	ErrInvalidRecipientID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid recipient ID",
		http.StatusBadRequest,
	)

	ErrInvalidAuthorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid author ID",
		http.StatusBadRequest,
	)

	ErrEmptyBody = apperror.New(
		apperror.CodeInvalidInput,
		"Feedback body is empty",
		http.StatusBadRequest,
	)
)
