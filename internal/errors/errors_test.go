package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("email is required"), http.StatusBadRequest, "email is required"},
		{"state", ErrAlreadyVerified, http.StatusBadRequest, "User already verified"},
		{"not found", ErrUserNotFound, http.StatusNotFound, "User does not exist"},
		{"conflict", ErrUserExists, http.StatusConflict, "Email or username already exists"},
		{"unauthorized", ErrNotVerified, http.StatusUnauthorized, "You are not verified"},
		{"forbidden", ErrInvalidPassword, http.StatusForbidden, "Invalid password"},
		{"wrapped sentinel", fmt.Errorf("signin: %w", ErrInvalidPassword), http.StatusForbidden, "Invalid password"},
		{"internal hides cause", Internal("Server error during signup", errors.New("dial tcp: refused")), http.StatusInternalServerError, "Server error during signup"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.False(t, httpErr.ToErrorResponse().Success)
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("Server error", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, KindState, KindOf(fmt.Errorf("verify: %w", ErrCodeExpired)))
}
