// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// # Contracts

// TokenIssuer signs and verifies the two token kinds. [sec.TokenService] implements it.
type TokenIssuer interface {
	GenerateAccessToken(subject sec.Subject) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	VerifyRefreshToken(token string) (*sec.RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// errRefreshRejected covers every refresh failure other than a missing user.
var errRefreshRejected = apperr.Unauthorized("Invalid or expired refresh token")

// # Token Pair Issuance

/*
IssueTokenPair loads the user, mints a fresh pair and persists the refresh token.

Description: Only the refresh token column is written. The write is conditioned
on the currently stored value so concurrent issuers cannot both win.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - TokenPair: Signed access and refresh tokens
  - error: apperr.NotFound, apperr.Conflict on a lost race, or signing failures
*/
func (service *Service) IssueTokenPair(context context.Context, userID string) (TokenPair, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return TokenPair{}, err
	}

	pair, swapped, err := service.issueTokenPair(context, user, user.StoredRefreshToken())
	if err != nil {
		return TokenPair{}, err
	}
	if !swapped {
		return TokenPair{}, apperr.Conflict("Session changed concurrently, try again")
	}
	return pair, nil
}

// issueTokenPair signs a pair for user and swaps its stored refresh token from expected.
func (service *Service) issueTokenPair(context context.Context, user *User, expected string) (TokenPair, bool, error) {
	accessToken, err := service.tokenIssuer.GenerateAccessToken(sec.Subject{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	})
	if err != nil {
		return TokenPair{}, false, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.GenerateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, false, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	swapped, err := service.userRepository.UpdateRefreshToken(context, user.ID, expected, refreshToken)
	if err != nil {
		return TokenPair{}, false, fmt.Errorf("auth_service_store_refresh_failed: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, swapped, nil
}

// # Session Refresh

/*
RefreshSession verifies a refresh token and rotates it.

Description: The presented token must verify against the refresh secret and be
byte-identical to the single stored value. On success a new pair replaces it, so
the presented token can never be used again.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - TokenPair: Rotated credentials
  - error: apperr.Unauthorized, apperr.NotFound or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, apperr.Unauthorized("Unauthorized request")
	}

	claims, err := service.tokenIssuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, errRefreshRejected
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return TokenPair{}, apperr.NotFound("User")
		}
		return TokenPair{}, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	stored := user.StoredRefreshToken()
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return TokenPair{}, errRefreshRejected
	}

	pair, swapped, err := service.issueTokenPair(context, user, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	// Another request rotated the same token first.
	if !swapped {
		return TokenPair{}, errRefreshRejected
	}

	return pair, nil
}

// SessionTTLs returns the access and refresh lifetimes used for cookie expiry.
func (service *Service) SessionTTLs() (time.Duration, time.Duration) {
	return service.tokenIssuer.AccessTTL(), service.tokenIssuer.RefreshTTL()
}
