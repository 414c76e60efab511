// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/users/auth"
)

/*
TestRespondUpdated answers with the re-attached record instead of the one loaded by the guard.
*/
func TestRespondUpdated(t *testing.T) {
	stale := &auth.User{ID: "u1", Username: "alice", FullName: "Alice"}
	request := httptest.NewRequest(http.MethodPatch, "/update-account-details", nil)
	request = request.WithContext(auth.WithCurrentUser(request.Context(), stale))

	token := "refresh"
	updated := &auth.User{ID: "u1", Username: "alice", FullName: "Alice L", PasswordHash: "$2a$10$x", RefreshToken: &token}

	recorder := httptest.NewRecorder()
	respondUpdated(recorder, request, updated, "Account details updated successfully")

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "Alice L", envelope.Data["fullName"])
	assert.NotContains(t, envelope.Data, "password")
	assert.NotContains(t, envelope.Data, "refreshToken")
}
