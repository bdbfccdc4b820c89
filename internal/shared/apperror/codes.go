package apperror

// Frontend melakukan switch atas code ini lewat response envelope;
// mengganti nilainya adalah breaking change kontrak API.
const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	// CONFLICT dipakai dua arti: bentrok permanen (slug atau email kembar)
	// dan bentrok sementara saat booking absence (serialization failure).
	// Bedanya di flag retryable, bukan di code.
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
