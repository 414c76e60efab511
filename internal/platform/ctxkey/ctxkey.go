// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys carried through a vidtube request.
//
// A request gains its keys in middleware order: the request id and logger
// first, the access claims once Authenticate verifies a token, and the
// caller's account record once the session guard has loaded it.
package ctxkey

// key is unexported so no other package can forge a colliding key.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "vidtube.request_id"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "vidtube.logger"

	// KeyAccessClaims is the context key for the verified access-token claims.
	KeyAccessClaims key = "vidtube.access_claims"

	// KeyTokenRejection is the context key for why a presented access token was refused.
	KeyTokenRejection key = "vidtube.token_rejection"

	// KeyCurrentUser is the context key for the sanitized account record of the caller.
	KeyCurrentUser key = "vidtube.current_user"
)
