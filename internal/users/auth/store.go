// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user credentials and sessions.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity including credential fields
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByLogin returns the first account matching either the email or the
		username. Empty arguments are ignored.

		Parameters:
		  - context: context.Context
		  - email: string (case-folded)
		  - username: string (case-folded)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByLogin(context context.Context, email, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate email/username, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateRefreshToken swaps the stored refresh token from expected to next,
		touching no other column. An empty expected matches an absent token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - expected: string
		  - next: string

		Returns:
		  - bool: false when the stored value no longer equals expected
		  - error: Storage failures
	*/
	UpdateRefreshToken(context context.Context, userID, expected, next string) (bool, error)

	/*
		ClearRefreshToken removes the stored refresh token. Clearing an already
		empty token, or a vanished user, is not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Storage failures
	*/
	ClearRefreshToken(context context.Context, userID string) error

	/*
		UpdatePassword replaces the password hash and clears the refresh token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Volatile Data Access

// RevocationStore records access tokens that must stop working before they expire.
type RevocationStore interface {

	/*
		Revoke denylists the token id until the given instant.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti)
		  - until: time.Time (token expiry)

		Returns:
		  - error: Store failures
	*/
	Revoke(context context.Context, tokenID string, until time.Time) error

	/*
		IsRevoked reports whether the token id is denylisted.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti)

		Returns:
		  - bool: true if denylisted
		  - error: Store failures
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
