// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/api"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/testsupport"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/internal/users/channel"
)

func newTestServer(t *testing.T) (http.Handler, *testsupport.MemoryStore) {
	t.Helper()
	logger := testsupport.DiscardLogger()
	store := testsupport.NewMemoryStore()
	mediaStore := testsupport.NewMediaStoreStub()
	revocations := testsupport.NewRevocationStoreStub()
	tokens := testsupport.NewTokenService(t)

	guard := auth.NewSessionGuard(store, revocations, logger)
	authService := auth.NewService(store, tokens, mediaStore, revocations, logger)
	accountService := account.NewService(store, mediaStore, logger)
	channelService := channel.NewService(store, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)
	server := api.NewServer(t.Context(), &config.Config{ServerPort: "0"}, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, guard, 1<<20),
		Account:   account.NewHandler(accountService, guard.RequireUser, 1<<20),
		Channel:   channel.NewHandler(channelService, guard.RequireUser),
	})
	return server.Handler(), store
}

func send(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_SessionScenario registers, logs in, rotates once and rejects the reused token.
*/
func TestServer_SessionScenario(t *testing.T) {
	handler, _ := newTestServer(t)

	recorder := send(handler, testsupport.MultipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{"fullName": "Alice", "email": "a@x.com", "username": "alice", "password": "p"},
		testsupport.FilePart{Field: "avatar", Filename: "a.png", Body: testsupport.PNG},
	))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = send(handler, testsupport.JSONRequest(t, http.MethodPost, "/api/v1/users/login", map[string]string{"username": "alice", "password": "p"}))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var session auth.LoginSession
	testsupport.DecodeEnvelope(t, recorder, &session)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)

	recorder = send(handler, testsupport.JSONRequest(t, http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": session.RefreshToken}))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var rotated auth.TokenPair
	testsupport.DecodeEnvelope(t, recorder, &rotated)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	recorder = send(handler, testsupport.JSONRequest(t, http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": session.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	current := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	current.Header.Set("Authorization", "Bearer "+rotated.AccessToken)
	recorder = send(handler, current)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	profile := httptest.NewRequest(http.MethodGet, "/api/v1/users/channel/alice", nil)
	profile.Header.Set("Authorization", "Bearer "+rotated.AccessToken)
	assert.Equal(t, http.StatusOK, send(handler, profile).Code)
}

/*
TestServer_InfrastructureRoutes exposes probes and rejects malformed bearer headers.
*/
func TestServer_InfrastructureRoutes(t *testing.T) {
	handler, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, send(handler, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusOK, send(handler, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)

	recorder := send(handler, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	bad := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	bad.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, send(handler, bad).Code)
}

/*
TestServer_PublicRoutesIgnoreStaleBearer lets an expired access token ride along on login and refresh.
*/
func TestServer_PublicRoutesIgnoreStaleBearer(t *testing.T) {
	handler, _ := newTestServer(t)
	const stale = "Bearer expired.or.garbage"

	recorder := send(handler, testsupport.MultipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{"fullName": "Alice", "email": "a@x.com", "username": "alice", "password": "p"},
		testsupport.FilePart{Field: "avatar", Filename: "a.png", Body: testsupport.PNG},
	))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	login := testsupport.JSONRequest(t, http.MethodPost, "/api/v1/users/login", map[string]string{"username": "alice", "password": "p"})
	login.Header.Set("Authorization", stale)
	recorder = send(handler, login)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var session auth.LoginSession
	testsupport.DecodeEnvelope(t, recorder, &session)

	refresh := testsupport.JSONRequest(t, http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": session.RefreshToken})
	refresh.Header.Set("Authorization", stale)
	recorder = send(handler, refresh)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var rotated auth.TokenPair
	testsupport.DecodeEnvelope(t, recorder, &rotated)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	current := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	current.Header.Set("Authorization", stale)
	recorder = send(handler, current)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid access token", testsupport.DecodeEnvelope(t, recorder, nil).Message)
}
