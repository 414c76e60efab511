// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the authenticated user's own profile and images.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Media: Avatar and cover replacement delete the previous object before
    uploading the new one and persisting its reference.
*/
package account

import (
	"context"

	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for profile mutations.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateDetails replaces the display name, email and username.

		Parameters:
		  - context: context.Context
		  - id: string
		  - details: Details (already case-folded)

		Returns:
		  - *User: The stored record after the write
		  - error: apperr.NotFound, apperr.Conflict or storage failures
	*/
	UpdateDetails(context context.Context, id string, details Details) (*auth.User, error)

	/*
		UpdateAvatar stores a new avatar reference.

		Parameters:
		  - context: context.Context
		  - id: string
		  - url: string

		Returns:
		  - *User: The stored record after the write
		  - error: apperr.NotFound or storage failures
	*/
	UpdateAvatar(context context.Context, id, url string) (*auth.User, error)

	/*
		UpdateCoverImage stores a new cover image reference.

		Parameters:
		  - context: context.Context
		  - id: string
		  - url: string

		Returns:
		  - *User: The stored record after the write
		  - error: apperr.NotFound or storage failures
	*/
	UpdateCoverImage(context context.Context, id, url string) (*auth.User, error)
}

// Details is the editable identity of an account.
type Details struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
