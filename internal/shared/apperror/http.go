package apperror

import (
	"errors"
	"net/http"
)

// HTTPError adalah bentuk final error yang aman dikirim ke client
type HTTPError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
	Details   any
}

// ToHTTP menerjemahkan error apapun menjadi HTTPError.
// Error selain *AppError dianggap internal dan tidak dibocorkan ke client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:    appErr.HTTPStatus,
			Code:      appErr.Code,
			Message:   appErr.Message,
			Retryable: appErr.Retryable,
			Details:   appErr.Details,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
