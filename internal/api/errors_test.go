package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seamshq/go-seams/internal/seams"
)

func TestFromDomainError(t *testing.T) {
	tcases := []struct {
		name       string
		err        error
		statusCode int
		message    string
	}{
		{
			name:       "input error",
			err:        seams.NewInputError("invalid channel id"),
			statusCode: http.StatusBadRequest,
			message:    "invalid channel id",
		},
		{
			name:       "access error",
			err:        seams.NewAccessError("invalid token"),
			statusCode: http.StatusForbidden,
			message:    "invalid token",
		},
		{
			name:       "unexpected error",
			err:        errors.New("disk full"),
			statusCode: http.StatusInternalServerError,
			message:    "internal server error",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := fromDomainError(tc.err)
			assert.Equal(t, tc.statusCode, apiErr.StatusCode)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}
