// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxkey"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// SessionGuard resolves verified access claims into a live account record.
type SessionGuard struct {
	userRepository  UserRepository
	revocationStore RevocationStore
	logger          *slog.Logger
}

// NewSessionGuard constructs a [SessionGuard].
func NewSessionGuard(users UserRepository, revocations RevocationStore, logger *slog.Logger) *SessionGuard {
	return &SessionGuard{userRepository: users, revocationStore: revocations, logger: logger}
}

/*
RequireUser rejects requests whose access token was revoked or whose user no
longer exists, and attaches the sanitized record for downstream handlers.

Must be registered after middleware.Authenticate. A denylist lookup failure
rejects the request rather than letting it through.
*/
func (guard *SessionGuard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		claims := ctxutil.GetAccessClaims(ctx)
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}

		revoked, err := guard.revocationStore.IsRevoked(ctx, claims.ID)
		if err != nil {
			respond.Error(writer, request, apperr.ServerError("Unable to verify session", err))
			return
		}
		if revoked {
			respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
			return
		}

		user, err := guard.userRepository.FindByID(ctx, claims.UserID)
		if err != nil {
			if apperr.IsNotFound(err) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}
			respond.Error(writer, request, err)
			return
		}

		next.ServeHTTP(writer, request.WithContext(WithCurrentUser(ctx, user.Sanitize())))
	})
}

// WithCurrentUser returns a copy of ctx carrying the caller's account record.
func WithCurrentUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyCurrentUser, user)
}

// CurrentUser returns the record attached by [SessionGuard.RequireUser], or nil.
func CurrentUser(ctx context.Context) *User {
	user, _ := ctx.Value(ctxkey.KeyCurrentUser).(*User)
	return user
}
