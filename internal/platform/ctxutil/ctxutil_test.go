// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

/*
TestContext_RequestID round-trips the correlation id.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger falls back to the default logger until one is attached.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AccessClaims stores the claims and exposes the caller id.
*/
func TestContext_AccessClaims(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAccessClaims(ctx))
	assert.Empty(t, ctxutil.CallerID(ctx))

	ctx = ctxutil.WithAccessClaims(ctx, &sec.AccessClaims{UserID: "user-123", Username: "alice"})

	retrieved := ctxutil.GetAccessClaims(ctx)
	require.NotNil(t, retrieved)
	assert.Equal(t, "alice", retrieved.Username)
	assert.Equal(t, "user-123", ctxutil.CallerID(ctx))
}

/*
TestContext_AccessClaimsTagLogger adds the caller to every later request log line.
*/
func TestContext_AccessClaimsTagLogger(t *testing.T) {
	var buffer bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buffer, nil)))

	ctx = ctxutil.WithAccessClaims(ctx, &sec.AccessClaims{UserID: "user-123", Username: "alice"})
	ctxutil.GetLogger(ctx).Info("avatar_updated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
	assert.Equal(t, "user-123", line["user_id"])
	assert.Equal(t, "alice", line["username"])
}

/*
TestContext_NilClaimsLeaveLoggerAlone keeps the request logger untouched.
*/
func TestContext_NilClaimsLeaveLoggerAlone(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := ctxutil.WithLogger(context.Background(), logger)

	ctx = ctxutil.WithAccessClaims(ctx, nil)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
	assert.Nil(t, ctxutil.GetAccessClaims(ctx))
}
