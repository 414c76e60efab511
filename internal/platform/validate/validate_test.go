// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

// registration mirrors the field set of the sign-up form.
type registration struct {
	fullName, email, username, password string
}

func (form registration) validate() error {
	return (&validate.Validator{}).
		Required("fullName", form.fullName).
		Required("email", form.email).
		Required("username", form.username).
		Required("password", form.password).
		ErrMessage("All fields are required")
}

/*
TestValidator_RegistrationForm reports each blank field of the sign-up form.
*/
func TestValidator_RegistrationForm(t *testing.T) {
	tests := []struct {
		name   string
		form   registration
		fields []string
	}{
		{"complete", registration{"Alice", "a@x.com", "alice", "p"}, nil},
		{"whitespace_name", registration{"   ", "a@x.com", "alice", "p"}, []string{"fullName"}},
		{"missing_credentials", registration{"Alice", "a@x.com", "", ""}, []string{"username", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			assert.Equal(t, "All fields are required", ae.Message)

			got := make([]string, 0, len(ae.Details))
			for _, detail := range ae.Details {
				got = append(got, detail.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

/*
TestValidator_Email accepts only a bare address.
*/
func TestValidator_Email(t *testing.T) {
	tests := map[string]bool{
		"alice@example.com":         true,
		"invalid-email":             false,
		"alice@":                    false,
		"Alice <alice@example.com>": false,
		"":                          false,
	}

	for email, valid := range tests {
		assert.Equal(t, !valid, (&validate.Validator{}).Email("email", email).HasErrors(), email)
	}
}

/*
TestValidator_LengthRules counts characters for MaxLen and bytes for MaxBytes.
*/
func TestValidator_LengthRules(t *testing.T) {
	// 24 three-byte runes: 24 characters, 72 bytes.
	password := strings.Repeat("パ", 24)

	assert.False(t, (&validate.Validator{}).MaxLen("fullName", password, 24).HasErrors())
	assert.False(t, (&validate.Validator{}).MaxBytes("password", password, 72).HasErrors())
	assert.True(t, (&validate.Validator{}).MaxBytes("password", password+"a", 72).HasErrors())
}

/*
TestValidator_HandleAndUUID checks channel handles and video ids.
*/
func TestValidator_HandleAndUUID(t *testing.T) {
	assert.False(t, (&validate.Validator{}).Handle("username", "alice_01").HasErrors())
	assert.False(t, (&validate.Validator{}).Handle("username", "").HasErrors(), "blank is left to Required")
	assert.True(t, (&validate.Validator{}).Handle("username", "alice bob").HasErrors())
	assert.True(t, (&validate.Validator{}).Handle("username", "al/ice").HasErrors())

	assert.False(t, (&validate.Validator{}).UUID("videoId", "0190a8f2-7c1e-7a3b-9d2e-4f5a6b7c8d9e").HasErrors())
	assert.False(t, (&validate.Validator{}).UUID("videoId", "0190A8F2-7C1E-7A3B-9D2E-4F5A6B7C8D9E").HasErrors())
	assert.True(t, (&validate.Validator{}).UUID("videoId", "not-a-uuid").HasErrors())
}

/*
TestValidator_CustomAndDefaultMessage uses "Validation failed" unless overridden.
*/
func TestValidator_CustomAndDefaultMessage(t *testing.T) {
	v := (&validate.Validator{}).Custom("newPassword", true, "Must differ from the current password")

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "Validation failed", ae.Message)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "Must differ from the current password", ae.Details[0].Message)
}
