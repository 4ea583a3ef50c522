package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_ERROR", http.StatusBadRequest},
		{"not found", NewNotFound("complaint", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *DomainError
			require.True(t, errors.As(tc.err, &domainErr))
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
		})
	}
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewNotFound("user", map[string]any{"user_id": "u1"})
	converted := ToDomainError(original)
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, "u1", converted.Details["user_id"])
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	converted := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
