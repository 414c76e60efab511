// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// # Access Token Denylist

// RedisRevocationStore implements [RevocationStore] using Redis keys that
// expire together with the token they block.
type RedisRevocationStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, now: time.Now}
}

/*
Revoke stores the token id until its expiry.

Description: A token that has already expired needs no entry and is skipped.

Parameters:
  - context: context.Context
  - tokenID: string
  - until: time.Time

Returns:
  - error: Execution errors
*/
func (store *RedisRevocationStore) Revoke(context context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}

	ttl := until.Sub(store.now())
	if ttl <= 0 {
		return nil
	}

	key := constants.RedisPrefixRevokedAccess + tokenID
	if err := store.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}
	return nil
}

/*
IsRevoked checks whether the token id has been denylisted.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: true while the entry is live
  - error: Connectivity errors
*/
func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	count, err := store.client.Exists(context, constants.RedisPrefixRevokedAccess+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}
	return count > 0, nil
}
