// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AccessClaims, error)
}

// Authenticate extracts and verifies the access token of the caller.
//
// # Flow
//  1. Prefer 'Authorization: Bearer <token>'; fall back to the accessToken cookie.
//  2. If neither yields valid claims, the request proceeds as anonymous so the
//     public routes (login, refresh) keep working with an expired token attached.
//     A rejected token is remembered for [RequireAuth]'s error message.
//  3. Inject [*sec.AccessClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			rejected := ""

			// ── 1. Bearer header ──────────────────────────────────────────────
			if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
				token, ok := strings.CutPrefix(header, constants.BearerPrefix)
				token = strings.TrimSpace(token)
				switch {
				case !ok || token == "":
					rejected = "Invalid authorization format"
				default:
					if claims, err := verifier.VerifyAccessToken(token); err == nil {
						next.ServeHTTP(writer, request.WithContext(ctxutil.WithAccessClaims(ctx, claims)))
						return
					}
					rejected = "Invalid access token"
				}
			}

			// ── 2. Cookie ─────────────────────────────────────────────────────
			if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
				if claims, err := verifier.VerifyAccessToken(cookie.Value); err == nil {
					next.ServeHTTP(writer, request.WithContext(ctxutil.WithAccessClaims(ctx, claims)))
					return
				}
				if rejected == "" {
					rejected = "Invalid access token"
				}
			}

			// ── 3. Anonymous ──────────────────────────────────────────────────
			if rejected != "" {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "access_token_rejected", slog.String("reason", rejected))
				ctx = ctxutil.WithTokenRejection(ctx, rejected)
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		if ctxutil.GetAccessClaims(ctx) == nil {
			message := ctxutil.GetTokenRejection(ctx)
			if message == "" {
				message = "Unauthorized request"
			}
			respond.Error(writer, request, apperr.Unauthorized(message))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
