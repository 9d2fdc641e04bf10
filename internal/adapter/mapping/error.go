package mapping

import (
	"errors"
	"net/http"

	"github.com/jyokotori/neko-words/internal/entity"
)

// ToHTTPStatus maps domain errors onto REST status codes.
func ToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrInvalidWordText),
		errors.Is(err, entity.ErrInvalidWordID),
		errors.Is(err, entity.ErrInvalidGrade),
		errors.Is(err, entity.ErrNoReviewHistory):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrWordNotFound), errors.Is(err, entity.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateWord):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the body of every non-2xx REST response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
