// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping pins every taxonomy entry to its HTTP status.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"bad_request", apperr.BadRequest("x"), apperr.CodeBadRequest, http.StatusBadRequest},
		{"validation", apperr.ValidationError("x"), apperr.CodeValidation, http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("x"), apperr.CodeUnauthorized, http.StatusUnauthorized},
		{"not_found", apperr.NotFound("User"), apperr.CodeNotFound, http.StatusNotFound},
		{"conflict", apperr.Conflict("x"), apperr.CodeConflict, http.StatusConflict},
		{"rate_limited", apperr.RateLimited(3), apperr.CodeRateLimited, http.StatusTooManyRequests},
		{"internal", apperr.Internal(errors.New("boom")), apperr.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.status, apperr.Status(tt.err))
		})
	}
}

/*
TestAs_TraversesWrappedChain ensures wrapped service errors keep their classification.
*/
func TestAs_TraversesWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("auth_service_login_failed: %w", apperr.NotFound("User"))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "User not found", ae.Message)
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))
}

/*
TestInternal_HidesCause checks the client message never carries the cause text.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation users does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, apperr.Status(errors.New("plain")))
}
