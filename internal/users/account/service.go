// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/casefold"
	"github.com/taibuivan/vidtube/pkg/pointer"
)

// Service implements profile management use cases.
type Service struct {
	accountRepository AccountRepository
	mediaStore        media.Store
	logger            *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(
	accountRepo AccountRepository,
	mediaStore media.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		mediaStore:        mediaStore,
		logger:            logger,
	}
}

/*
GetCurrentUser returns the caller's record with credentials stripped.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_current_failed: %w", err)
	}
	return user.Sanitize(), nil
}

/*
UpdateProfile replaces the display name, email and username in one write.

Description: All three fields are required. Email and username are case-folded
before the write; a value held by another user is a Conflict.

Parameters:
  - context: context.Context
  - userID: string
  - input: Details

Returns:
  - *auth.User: The updated profile
  - error: Validation, NotFound, Conflict or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input Details) (*auth.User, error) {
	var v validate.Validator
	v.
		Required(auth.FieldFullName, input.FullName).
		Required(auth.FieldEmail, input.Email).
		Required(auth.FieldUsername, input.Username)
	if err := v.ErrMessage("All fields are required"); err != nil {
		return nil, err
	}

	folded := Details{
		FullName: input.FullName,
		Email:    casefold.String(input.Email),
		Username: casefold.String(input.Username),
	}

	v.
		MaxLen(auth.FieldFullName, folded.FullName, auth.MaxFullNameLength).
		MaxLen(auth.FieldEmail, folded.Email, auth.MaxEmailLength).
		Email(auth.FieldEmail, folded.Email).
		MaxLen(auth.FieldUsername, folded.Username, auth.MaxUsernameLength).
		Handle(auth.FieldUsername, folded.Username)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateDetails(context, userID, folded)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))
	return user.Sanitize(), nil
}

// # Image Replacement

/*
UpdateAvatar replaces the caller's avatar with the staged file.

Returns:
  - *auth.User: The updated profile
  - error: BadRequest, NotFound, ServerError or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, file *media.Staged) (*auth.User, error) {
	return service.replaceImage(context, userID, file, imageSlot{
		label:   "Avatar",
		current: func(user *auth.User) string { return user.Avatar },
		persist: service.accountRepository.UpdateAvatar,
	})
}

/*
UpdateCoverImage replaces the caller's cover image with the staged file.

Returns:
  - *auth.User: The updated profile
  - error: BadRequest, NotFound, ServerError or storage failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID string, file *media.Staged) (*auth.User, error) {
	return service.replaceImage(context, userID, file, imageSlot{
		label:   "Cover image",
		current: func(user *auth.User) string { return pointer.Val(user.CoverImage) },
		persist: service.accountRepository.UpdateCoverImage,
	})
}

// imageSlot describes one replaceable image column.
type imageSlot struct {
	label   string
	current func(user *auth.User) string
	persist func(context context.Context, id, url string) (*auth.User, error)
}

/*
replaceImage deletes the previous object, uploads the new one and stores its URL.

The old object is deleted first and a failed delete aborts the operation. An
upload failure after a successful delete leaves the record pointing at the
removed object; there is no rollback.
*/
func (service *Service) replaceImage(context context.Context, userID string, file *media.Staged, slot imageSlot) (*auth.User, error) {
	if file == nil {
		return nil, apperr.BadRequest(slot.label + " file is missing")
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_image_lookup_failed: %w", err)
	}

	if previous := slot.current(user); previous != "" {
		if err := service.mediaStore.Delete(context, previous); err != nil {
			return nil, apperr.ServerError("Failed to delete previous "+strings.ToLower(slot.label), err)
		}
	}

	reference, err := service.mediaStore.Upload(context, file)
	if err != nil || reference.URL == "" {
		service.logger.WarnContext(context, "account_image_upload_failed",
			slog.String("user_id", userID),
			slog.String("slot", slot.label),
			slog.Any("error", err),
		)
		return nil, apperr.BadRequest("Error while uploading " + strings.ToLower(slot.label))
	}

	updated, err := slot.persist(context, userID, reference.URL)
	if err != nil {
		return nil, fmt.Errorf("account_service_image_persist_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_image_updated",
		slog.String("user_id", userID),
		slog.String("slot", slot.label),
	)
	return updated.Sanitize(), nil
}
