// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/casefold"
	"github.com/taibuivan/vidtube/pkg/pointer"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Service implements user authentication use cases.
type Service struct {
	userRepository  UserRepository
	tokenIssuer     TokenIssuer
	mediaStore      media.Store
	revocationStore RevocationStore
	logger          *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokens TokenIssuer,
	mediaStore media.Store,
	revocations RevocationStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenIssuer:     tokens,
		mediaStore:      mediaStore,
		revocationStore: revocations,
		logger:          logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Avatar is required; CoverImage is optional. Both are owned by the caller,
	// which closes them.
	Avatar     *media.Staged
	CoverImage *media.Staged
}

/*
Register validates, uploads, hashes, and persists a brand new user account.

Description: The uniqueness check runs before any upload. A cover upload
failure is tolerated; an avatar failure aborts.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity, sanitized
  - err: BadRequest, Conflict, ServerError or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// All four text fields must carry something other than whitespace.
	var presence validate.Validator
	presence.
		Required(FieldFullName, input.FullName).
		Required(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)
	if err := presence.ErrMessage("All fields are required"); err != nil {
		return nil, err
	}

	var format validate.Validator
	format.
		MaxLen(FieldFullName, input.FullName, MaxFullNameLength).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Handle(FieldUsername, casefold.String(input.Username)).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)
	if err := format.Err(); err != nil {
		return nil, err
	}

	email := casefold.String(input.Email)
	username := casefold.String(input.Username)

	_, err := service.userRepository.FindByLogin(context, email, username)
	switch {
	case err == nil:
		return nil, apperr.Conflict("User with email or username already exists")
	case !apperr.IsNotFound(err):
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	if input.Avatar == nil {
		return nil, apperr.BadRequest("Avatar is required")
	}

	avatar, err := service.mediaStore.Upload(context, input.Avatar)
	if err != nil || avatar.URL == "" {
		service.logger.WarnContext(context, "register_avatar_upload_failed", slog.Any("error", err))
		return nil, apperr.BadRequest("Failed to upload avatar")
	}

	var coverImage *string
	if input.CoverImage != nil {
		cover, err := service.mediaStore.Upload(context, input.CoverImage)
		if err != nil {
			service.logger.WarnContext(context, "register_cover_upload_failed", slog.Any("error", err))
		} else {
			coverImage = pointer.NilIfZero(cover.URL)
		}
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     input.FullName,
		Avatar:       avatar.URL,
		CoverImage:   coverImage,
		PasswordHash: hashedPassword,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	created, err := service.userRepository.FindByID(context, user.ID)
	if err != nil {
		return nil, apperr.ServerError("Something went wrong while registering the user", err)
	}

	service.logger.InfoContext(context, "user_registered", slog.String("user_id", created.ID))
	return created.Sanitize(), nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt. Either
// Email or Username identifies the account.
type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

/*
Login validates user credentials and issues security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Sanitized user and a fresh token pair
  - err: BadRequest, NotFound, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	email := casefold.String(input.Email)
	username := casefold.String(input.Username)
	if email == "" && username == "" {
		return nil, apperr.BadRequest("Username or Email is required for login")
	}

	user, err := service.userRepository.FindByLogin(context, email, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, &apperr.AppError{
				Code:       apperr.CodeNotFound,
				Message:    "User does not exist",
				HTTPStatus: http.StatusNotFound,
			}
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}

	expected := user.StoredRefreshToken()
	if sec.NeedsRehash(user.PasswordHash) && service.upgradePasswordHash(context, user.ID, input.Password) {
		expected = ""
	}

	pair, swapped, err := service.issueTokenPair(context, user, expected)
	if err != nil {
		return nil, err
	}

	// A concurrent login or refresh moved the stored token; swap once more
	// against the value it left behind.
	if !swapped {
		fresh, err := service.userRepository.FindByID(context, user.ID)
		if err != nil {
			return nil, fmt.Errorf("auth_service_login_reload_failed: %w", err)
		}
		pair, swapped, err = service.issueTokenPair(context, fresh, fresh.StoredRefreshToken())
		if err != nil {
			return nil, err
		}
		if !swapped {
			return nil, apperr.Conflict("Session changed concurrently, try again")
		}
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginSession{
		User:         user.Sanitize(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

/*
Logout clears the stored refresh token and denylists the presented access token.

Description: Idempotent. A denylist failure is logged and does not fail the
logout, since the refresh side is already revoked.

Parameters:
  - context: context.Context
  - userID: string
  - claims: *sec.AccessClaims (may be nil)

Returns:
  - err: Storage failures
*/
func (service *Service) Logout(context context.Context, userID string, claims *sec.AccessClaims) error {
	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.revokeAccess(context, claims)
	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Credential Management

// ChangePasswordInput carries the current and the replacement password.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

/*
ChangePassword verifies the current password and stores a new hash.

Description: The stored refresh token is cleared in the same write and the
presented access token is denylisted, so every open session must log in again.

Parameters:
  - context: context.Context
  - userID: string
  - input: ChangePasswordInput
  - claims: *sec.AccessClaims (may be nil)

Returns:
  - err: Validation, Unauthorized, NotFound or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordInput, claims *sec.AccessClaims) error {
	var v validate.Validator
	v.
		Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MaxBytes(FieldNewPassword, input.NewPassword, sec.MaxPasswordBytes).
		Custom(FieldNewPassword, input.NewPassword != "" && input.NewPassword == input.OldPassword, "Must differ from the current password")
	if err := v.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Invalid old password")
	}

	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	service.revokeAccess(context, claims)
	service.logger.InfoContext(context, "password_changed", slog.String("user_id", userID))
	return nil
}

// upgradePasswordHash re-hashes a verified password stored below
// [sec.PasswordCost]. The write also clears the refresh token, so it reports
// whether the stored token is now empty. Failures only cost the upgrade.
func (service *Service) upgradePasswordHash(context context.Context, userID, password string) bool {
	hashedPassword, err := sec.HashPassword(password)
	if err == nil {
		err = service.userRepository.UpdatePassword(context, userID, hashedPassword)
	}
	if err != nil {
		service.logger.WarnContext(context, "password_rehash_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return false
	}

	service.logger.InfoContext(context, "password_rehashed", slog.String("user_id", userID))
	return true
}

// revokeAccess denylists the access token behind claims until it expires.
func (service *Service) revokeAccess(context context.Context, claims *sec.AccessClaims) {
	if claims == nil || claims.ID == "" {
		return
	}

	until := time.Now().Add(service.tokenIssuer.AccessTTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}

	if err := service.revocationStore.Revoke(context, claims.ID, until); err != nil {
		service.logger.WarnContext(context, "access_token_revoke_failed",
			slog.String("user_id", claims.UserID),
			slog.Any("error", err),
		)
	}
}
