package notificationerrors

import (
	"net/http"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)

	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid notification ID",
		http.StatusBadRequest,
	)

	ErrInvalidRecipientID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid recipient ID",
		http.StatusBadRequest,
	)

	ErrMissingEventID = apperror.New(
		apperror.CodeInvalidInput,
		"Event ID is required for notification dedup",
		http.StatusBadRequest,
	)
)
