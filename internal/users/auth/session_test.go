// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/testsupport"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

/*
TestSessionGuard_RequireUser resolves claims into a live record or rejects the request.
*/
func TestSessionGuard_RequireUser(t *testing.T) {
	store := testsupport.NewMemoryStore()
	userID := store.SeedUser(auth.User{Username: "alice", Email: "a@x.com", FullName: "Alice", PasswordHash: "hash"})

	revocations := testsupport.NewRevocationStoreStub()
	require.NoError(t, revocations.Revoke(context.Background(), "revoked-jti", time.Now().Add(time.Hour)))

	guard := auth.NewSessionGuard(store, revocations, testsupport.DiscardLogger())

	var seen *auth.User
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = auth.CurrentUser(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	})
	handler := guard.RequireUser(next)

	claimsFor := func(subject, jti string) *sec.AccessClaims {
		return &sec.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{ID: jti}, UserID: subject}
	}

	tests := []struct {
		name   string
		claims *sec.AccessClaims
		status int
	}{
		{name: "anonymous", claims: nil, status: http.StatusUnauthorized},
		{name: "revoked_token", claims: claimsFor(userID, "revoked-jti"), status: http.StatusUnauthorized},
		{name: "deleted_user", claims: claimsFor("missing", "jti-2"), status: http.StatusUnauthorized},
		{name: "live_session", claims: claimsFor(userID, "jti-3"), status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAccessClaims(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status != http.StatusNoContent {
				assert.Nil(t, seen)
				envelope := testsupport.DecodeEnvelope(t, recorder, nil)
				assert.Equal(t, apperr.CodeUnauthorized, envelope.Code)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, userID, seen.ID)
			assert.Empty(t, seen.PasswordHash)
		})
	}
}

/*
TestSessionGuard_DenylistFailure fails closed when the denylist is unreachable.
*/
func TestSessionGuard_DenylistFailure(t *testing.T) {
	store := testsupport.NewMemoryStore()
	userID := store.SeedUser(auth.User{Username: "alice", Email: "a@x.com", FullName: "Alice"})

	revocations := testsupport.NewRevocationStoreStub()
	revocations.Err = errors.New("redis down")

	guard := auth.NewSessionGuard(store, revocations, testsupport.DiscardLogger())
	handler := guard.RequireUser(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next must not run")
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAccessClaims(request.Context(), &sec.AccessClaims{UserID: userID}))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Unable to verify session", testsupport.DecodeEnvelope(t, recorder, nil).Message)
}
