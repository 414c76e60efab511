// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/testsupport"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/pointer"
)

const oldAvatar = "https://media.test/avatar/old.png"

func newService(t *testing.T) (*account.Service, *testsupport.MemoryStore, *testsupport.MediaStoreStub, string) {
	t.Helper()
	store := testsupport.NewMemoryStore()
	mediaStore := testsupport.NewMediaStoreStub()
	mediaStore.Seed(oldAvatar)

	userID := store.SeedUser(auth.User{
		Username:     "alice",
		Email:        "a@x.com",
		FullName:     "Alice",
		Avatar:       oldAvatar,
		PasswordHash: "hash",
	})
	return account.NewService(store, mediaStore, testsupport.DiscardLogger()), store, mediaStore, userID
}

/*
TestGetCurrentUser strips credentials and reports unknown ids.
*/
func TestGetCurrentUser(t *testing.T) {
	service, _, _, userID := newService(t)

	user, err := service.GetCurrentUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = service.GetCurrentUser(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateProfile folds identity fields and rejects blanks and collisions.
*/
func TestUpdateProfile(t *testing.T) {
	service, store, _, userID := newService(t)
	store.SeedUser(auth.User{Username: "bob", Email: "b@x.com", FullName: "Bob"})
	ctx := context.Background()

	user, err := service.UpdateProfile(ctx, userID, account.Details{FullName: "Alice L", Email: "Alice@X.com", Username: "AliceL"})
	require.NoError(t, err)
	assert.Equal(t, "Alice L", user.FullName)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, "alicel", user.Username)

	_, err = service.UpdateProfile(ctx, userID, account.Details{FullName: "Alice", Email: "a@x.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, "All fields are required", apperr.As(err).Message)

	_, err = service.UpdateProfile(ctx, userID, account.Details{FullName: "Alice", Email: "B@X.COM", Username: "alice"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	stored, _ := store.User(userID)
	assert.Equal(t, "alicel", stored.Username, "rejected writes leave the record unchanged")
}

/*
TestUpdateAvatar_DeletesBeforeUpload removes the previous object before storing the new one.
*/
func TestUpdateAvatar_DeletesBeforeUpload(t *testing.T) {
	service, store, mediaStore, userID := newService(t)

	user, err := service.UpdateAvatar(context.Background(), userID, testsupport.StagePNG(t, auth.FieldAvatar))
	require.NoError(t, err)

	assert.Equal(t, []string{"delete:" + oldAvatar, "upload:" + auth.FieldAvatar}, mediaStore.Calls)
	assert.False(t, mediaStore.Has(oldAvatar))
	assert.True(t, mediaStore.Has(user.Avatar))
	assert.NotEqual(t, oldAvatar, user.Avatar)

	stored, _ := store.User(userID)
	assert.Equal(t, user.Avatar, stored.Avatar)
}

/*
TestUpdateAvatar_Failures covers a missing file, a failed delete and a failed upload.
*/
func TestUpdateAvatar_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_file", func(t *testing.T) {
		service, _, mediaStore, userID := newService(t)
		_, err := service.UpdateAvatar(ctx, userID, nil)
		assert.True(t, apperr.HasCode(err, apperr.CodeBadRequest))
		assert.Equal(t, "Avatar file is missing", apperr.As(err).Message)
		assert.Empty(t, mediaStore.Calls)
	})

	t.Run("delete_fails", func(t *testing.T) {
		service, store, mediaStore, userID := newService(t)
		mediaStore.FailDelete = true

		_, err := service.UpdateAvatar(ctx, userID, testsupport.StagePNG(t, auth.FieldAvatar))
		assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
		assert.Equal(t, []string{"delete:" + oldAvatar}, mediaStore.Calls, "no upload after a failed delete")

		stored, _ := store.User(userID)
		assert.Equal(t, oldAvatar, stored.Avatar)
	})

	t.Run("upload_fails", func(t *testing.T) {
		service, store, mediaStore, userID := newService(t)
		mediaStore.FailUpload[auth.FieldAvatar] = true

		_, err := service.UpdateAvatar(ctx, userID, testsupport.StagePNG(t, auth.FieldAvatar))
		assert.True(t, apperr.HasCode(err, apperr.CodeBadRequest))
		assert.Equal(t, "Error while uploading avatar", apperr.As(err).Message)

		stored, _ := store.User(userID)
		assert.Equal(t, oldAvatar, stored.Avatar, "record keeps the deleted url")
	})

	t.Run("unknown_user", func(t *testing.T) {
		service, _, _, _ := newService(t)
		_, err := service.UpdateAvatar(ctx, "missing", testsupport.StagePNG(t, auth.FieldAvatar))
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestUpdateCoverImage skips the delete when no cover is set yet.
*/
func TestUpdateCoverImage(t *testing.T) {
	service, _, mediaStore, userID := newService(t)
	ctx := context.Background()

	first, err := service.UpdateCoverImage(ctx, userID, testsupport.StagePNG(t, auth.FieldCoverImage))
	require.NoError(t, err)
	require.NotNil(t, first.CoverImage)
	assert.Equal(t, []string{"upload:" + auth.FieldCoverImage}, mediaStore.Calls)

	second, err := service.UpdateCoverImage(ctx, userID, testsupport.StagePNG(t, auth.FieldCoverImage))
	require.NoError(t, err)
	assert.Equal(t, "delete:"+pointer.Val(first.CoverImage), mediaStore.Calls[1])
	assert.NotEqual(t, pointer.Val(first.CoverImage), pointer.Val(second.CoverImage))
	assert.Equal(t, oldAvatar, second.Avatar)
}
