// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/testsupport"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/internal/users/channel"
)

func newChannelRouter(t *testing.T, c *community) (http.Handler, func(userID string) string) {
	t.Helper()
	tokens := testsupport.NewTokenService(t)
	guard := auth.NewSessionGuard(c.store, testsupport.NewRevocationStoreStub(), testsupport.DiscardLogger())

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Route("/api/v1/users", channel.NewHandler(c.service, guard.RequireUser).RegisterRoutes)

	bearer := func(userID string) string {
		token, err := tokens.GenerateAccessToken(sec.Subject{UserID: userID})
		require.NoError(t, err)
		return "Bearer " + token
	}
	return router, bearer
}

func call(router http.Handler, method, target, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHTTP_ChannelProfile exposes counts without credential fields.
*/
func TestHTTP_ChannelProfile(t *testing.T) {
	c := newCommunity(t)
	router, bearer := newChannelRouter(t, c)

	assert.Equal(t, http.StatusUnauthorized, call(router, http.MethodGet, "/api/v1/users/channel/alice", "").Code)

	recorder := call(router, http.MethodGet, "/api/v1/users/channel/Alice", bearer(c.bob))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var profile map[string]any
	envelope := testsupport.DecodeEnvelope(t, recorder, &profile)
	assert.Equal(t, "User channel fetched successfully", envelope.Message)
	assert.EqualValues(t, 3, profile["subscribersCount"])
	assert.EqualValues(t, 1, profile["channelsSubscribedToCount"])
	assert.Equal(t, true, profile["isSubscribed"])
	for _, key := range []string{"password", "refreshToken", "watchHistory"} {
		assert.NotContains(t, profile, key)
	}

	recorder = call(router, http.MethodGet, "/api/v1/users/channel/ghost", bearer(c.bob))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHTTP_SubscriptionAndHistory drives the relationship and history endpoints.
*/
func TestHTTP_SubscriptionAndHistory(t *testing.T) {
	c := newCommunity(t)
	router, bearer := newChannelRouter(t, c)

	recorder := call(router, http.MethodPost, "/api/v1/users/channel/carol/subscription", bearer(c.alice))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Subscribed successfully", testsupport.DecodeEnvelope(t, recorder, nil).Message)

	recorder = call(router, http.MethodPost, "/api/v1/users/channel/alice/subscription", bearer(c.alice))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = call(router, http.MethodDelete, "/api/v1/users/channel/carol/subscription", bearer(c.alice))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = call(router, http.MethodGet, "/api/v1/users/watch-history", bearer(c.dave))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", string(testsupport.DecodeEnvelope(t, recorder, nil).Data))

	video := c.store.SeedVideo(c.alice, "Intro")
	recorder = call(router, http.MethodPost, "/api/v1/users/watch-history/"+video, bearer(c.dave))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = call(router, http.MethodPost, "/api/v1/users/watch-history/bogus", bearer(c.dave))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = call(router, http.MethodGet, "/api/v1/users/watch-history", bearer(c.dave))
	require.Equal(t, http.StatusOK, recorder.Code)

	var history []channel.WatchedVideo
	envelope := testsupport.DecodeEnvelope(t, recorder, &history)
	assert.Equal(t, "Watch history fetched successfully", envelope.Message)
	require.Len(t, history, 1)
	assert.Equal(t, video, history[0].ID)
	assert.Equal(t, "alice", history[0].Owner.Username)
}
