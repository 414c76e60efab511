// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the User entity and the session lifecycle built on top of it:
registration, login, refresh-token rotation, logout and password change.

# Session Model

A user holds at most one refresh token. Issuing a pair replaces it with a
compare-and-swap write, so any older refresh token stops verifying the moment
a newer one is stored. Access tokens are stateless; logout and password change
additionally denylist the presented access token by jti until it expires.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the vidtube platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   *string   `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitize returns a copy with credential material removed, safe for responses.
func (user *User) Sanitize() *User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	clean.RefreshToken = nil
	if clean.WatchHistory == nil {
		clean.WatchHistory = []string{}
	}
	return &clean
}

// StoredRefreshToken returns the current refresh token, or "" when none is stored.
func (user *User) StoredRefreshToken() string {
	if user == nil || user.RefreshToken == nil {
		return ""
	}
	return *user.RefreshToken
}

// # Session State

// SessionState is the account lifecycle position derived from the stored refresh token.
type SessionState string

const (
	// StateUnregistered means no user record exists.
	StateUnregistered SessionState = "unregistered"
	// StateSignedOut covers a fresh registration and a logged-out account; the
	// store cannot tell them apart and neither may refresh.
	StateSignedOut SessionState = "signed_out"
	// StateAuthenticated means a refresh token is stored and may be rotated.
	StateAuthenticated SessionState = "authenticated"
)

// StateOf reports the lifecycle position of user.
func StateOf(user *User) SessionState {
	switch {
	case user == nil:
		return StateUnregistered
	case user.StoredRefreshToken() == "":
		return StateSignedOut
	default:
		return StateAuthenticated
	}
}

// TokenPair is the access and refresh token issued together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// # Field Identifiers

// Field names for validation and payload mapping in the authentication domain.
const (
	FieldFullName     = "fullName"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldAvatar       = "avatar"
	FieldCoverImage   = "coverImage"
	FieldOldPassword  = "oldPassword"
	FieldNewPassword  = "newPassword"
	FieldRefreshToken = "refreshToken"
)

// # Constraints

const (
	// MaxFullNameLength bounds the display name.
	MaxFullNameLength = 120
	// MaxUsernameLength bounds the channel handle.
	MaxUsernameLength = 50
	// MaxEmailLength bounds the email address.
	MaxEmailLength = 254
)
