package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/seamshq/go-seams/internal/seams"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    strings.ToLower(http.StatusText(http.StatusBadRequest)),
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    strings.ToLower(http.StatusText(http.StatusInternalServerError)),
		Err:        err,
	}
}

func NewUnauthorizedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Message:    strings.ToLower(http.StatusText(http.StatusUnauthorized)),
	}
}

// fromDomainError maps a service error onto its HTTP shape: invalid
// input is a 400, a failed token or permission check is a 403, and
// anything else is a 500.
func fromDomainError(err error) *ApiError {
	var derr *seams.Error
	if errors.As(err, &derr) {
		status := http.StatusBadRequest
		if derr.Kind == seams.KindAccess {
			status = http.StatusForbidden
		}
		return &ApiError{
			StatusCode: status,
			Message:    derr.Message,
		}
	}

	return NewInternalServerError(err)
}
