// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/testsupport"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/internal/users/channel"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

func seedAccount(t *testing.T, users *auth.PostgresUserRepository, username string) string {
	t.Helper()
	id := uuid.New()
	require.NoError(t, users.Create(context.Background(), &auth.User{
		ID:           id,
		Username:     username,
		Email:        username + "@x.com",
		FullName:     username,
		Avatar:       "https://media.test/" + username + ".png",
		PasswordHash: "$2a$10$hash",
	}))
	return id
}

/*
TestPostgresRepository_FindProfile runs the subscription counts and the membership test against PostgreSQL.
*/
func TestPostgresRepository_FindProfile(t *testing.T) {
	pool := testsupport.PostgresPool(t)
	users := auth.NewUserRepository(pool)
	repository := channel.NewRepository(pool)
	ctx := context.Background()

	alice := seedAccount(t, users, "alice")
	bob := seedAccount(t, users, "bob")
	carol := seedAccount(t, users, "carol")

	require.NoError(t, repository.Subscribe(ctx, bob, alice))
	require.NoError(t, repository.Subscribe(ctx, carol, alice))
	require.NoError(t, repository.Subscribe(ctx, bob, alice), "re-subscribing is a no-op")
	require.NoError(t, repository.Subscribe(ctx, alice, bob))

	profile, err := repository.FindProfile(ctx, "alice", bob)
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.SubscribersCount)
	assert.EqualValues(t, 1, profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribed)
	assert.Nil(t, profile.CoverImage)

	profile, err = repository.FindProfile(ctx, "alice", "")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	require.NoError(t, repository.Unsubscribe(ctx, bob, alice))
	profile, err = repository.FindProfile(ctx, "alice", bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)

	_, err = repository.FindProfile(ctx, "nobody", bob)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestPostgresRepository_WatchHistory keeps view order and duplicates through the video and owner joins.
*/
func TestPostgresRepository_WatchHistory(t *testing.T) {
	pool := testsupport.PostgresPool(t)
	users := auth.NewUserRepository(pool)
	repository := channel.NewRepository(pool)
	ctx := context.Background()

	alice := seedAccount(t, users, "alice")
	bob := seedAccount(t, users, "bob")
	carol := seedAccount(t, users, "carol")

	first := testsupport.SeedVideo(t, pool, alice, "First")
	second := testsupport.SeedVideo(t, pool, bob, "Second")

	videos, err := repository.FindWatchHistory(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.NotNil(t, videos)

	require.NoError(t, repository.RecordView(ctx, carol, first))
	require.NoError(t, repository.RecordView(ctx, carol, second))
	require.NoError(t, repository.RecordView(ctx, carol, first))

	videos, err = repository.FindWatchHistory(ctx, carol)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, []string{first, second, first}, []string{videos[0].ID, videos[1].ID, videos[2].ID})
	assert.Equal(t, channel.Owner{FullName: "alice", Username: "alice", Avatar: "https://media.test/alice.png"}, videos[0].Owner)
	assert.Equal(t, "bob", videos[1].Owner.Username)
	assert.Equal(t, "Second", videos[1].Title)

	err = repository.RecordView(ctx, carol, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}
