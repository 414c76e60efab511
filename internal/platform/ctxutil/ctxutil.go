// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the request-scoped values named in ctxkey.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidtube/internal/platform/ctxkey"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Caller Identity

/*
WithAccessClaims attaches verified access claims to ctx.

Description: When ctx already carries a request logger, it is replaced by one
tagged with the caller's user_id and username, so every later log line of the
request names who made it.
*/
func WithAccessClaims(ctx context.Context, claims *sec.AccessClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyAccessClaims, claims)
	if claims == nil {
		return ctx
	}

	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		ctx = WithLogger(ctx, logger.With(
			slog.String("user_id", claims.UserID),
			slog.String("username", claims.Username),
		))
	}
	return ctx
}

// GetAccessClaims returns the verified claims, or nil for anonymous requests.
func GetAccessClaims(ctx context.Context) *sec.AccessClaims {
	claims, _ := ctx.Value(ctxkey.KeyAccessClaims).(*sec.AccessClaims)
	return claims
}

// CallerID returns the authenticated user id, or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	if claims := GetAccessClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithTokenRejection records why a presented access token was refused.
func WithTokenRejection(ctx context.Context, reason string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyTokenRejection, reason)
}

// GetTokenRejection returns the recorded refusal reason, or "" if none.
func GetTokenRejection(ctx context.Context) string {
	reason, _ := ctx.Value(ctxkey.KeyTokenRejection).(string)
	return reason
}
