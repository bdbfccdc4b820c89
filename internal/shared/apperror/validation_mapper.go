package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// humanize mengubah nama field dari tag json jadi enak dibaca:
// "admin_email" -> "Admin Email".
func humanize(field string) string {
	field = strings.ReplaceAll(field, "_", " ")
	return cases.Title(language.English).String(field)
}

// MapValidationError menerjemahkan error binding Gin menjadi *AppError.
// Field pertama yang gagal menentukan pesan utama; daftar lengkap field
// yang gagal ikut di Details supaya frontend bisa menandai semuanya.
func MapValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Body bukan JSON yang sah, atau error binding di luar validasi field
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	first := errs[0]

	var appErr *AppError
	if first.Tag() == "required" {
		appErr = RequiredField(humanize(first.Field()))
	} else {
		appErr = InvalidField(humanize(first.Field()))
	}

	if len(errs) == 1 {
		return appErr
	}

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field())
	}
	return appErr.WithDetails(map[string]any{"fields": fields})
}
