// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/pkg/pointer"
)

// resourceUser names the entity in storage errors.
const resourceUser = "User"

// # Shared Projection

// SelectUserColumns is the projection scanned by [ScanUser]. The watch history
// is aggregated in insertion order from the history table.
var SelectUserColumns = strings.Join([]string{
	fmt.Sprintf("u.%s::text", schema.User.ID),
	"u." + schema.User.Username,
	"u." + schema.User.Email,
	"u." + schema.User.FullName,
	"u." + schema.User.Avatar,
	"u." + schema.User.CoverImage,
	"u." + schema.User.PasswordHash,
	"u." + schema.User.RefreshToken,
	"u." + schema.User.CreatedAt,
	"u." + schema.User.UpdatedAt,
	fmt.Sprintf("ARRAY(SELECT w.%s::text FROM %s w WHERE w.%s = u.%s ORDER BY w.%s)",
		schema.WatchHistory.VideoID, schema.WatchHistory.Table,
		schema.WatchHistory.UserID, schema.User.ID, schema.WatchHistory.ID),
}, ", ")

// ScanUser hydrates a [User] from a row selected with [SelectUserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.CoverImage,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.WatchHistory,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the vidtube.users table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on a duplicate identity, or storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		schema.User.Table,
		schema.User.ID, schema.User.Username, schema.User.Email, schema.User.FullName,
		schema.User.Avatar, schema.User.CoverImage, schema.User.PasswordHash,
		schema.User.CreatedAt, schema.User.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", dberr.Wrap(err, resourceUser))
	}
	return nil
}

/*
FindByID retrieves a user record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s u WHERE u.%s = $1`,
		SelectUserColumns, schema.User.Table, schema.User.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
FindByLogin retrieves the first user whose email or username matches.

Description: Either argument may be empty; an empty argument never matches.

Parameters:
  - context: context.Context
  - email: string
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, email, username string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s u
		WHERE ($1::text <> '' AND u.%s = $1) OR ($2::text <> '' AND u.%s = $2)
		LIMIT 1`,
		SelectUserColumns, schema.User.Table, schema.User.Email, schema.User.Username)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email, username))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
UpdateRefreshToken replaces the stored refresh token only if it still equals expected.

Description: The compare-and-swap runs in a single UPDATE, so two concurrent
rotations of the same token cannot both succeed. No other column is written
besides the updatedat timestamp.

Parameters:
  - context: context.Context
  - userID: string
  - expected: string ("" matches NULL)
  - next: string ("" stores NULL)

Returns:
  - bool: Whether the swap happened
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, userID, expected, next string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s IS NOT DISTINCT FROM $2`,
		schema.User.Table, schema.User.RefreshToken, schema.User.UpdatedAt,
		schema.User.ID, schema.User.RefreshToken)

	tag, err := repository.pool.Exec(context, query, userID, pointer.NilIfZero(expected), pointer.NilIfZero(next))
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_update_refresh_failed: %w", dberr.Wrap(err, resourceUser))
	}
	return tag.RowsAffected() == 1, nil
}

/*
ClearRefreshToken unsets the stored refresh token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NULL, %s = NOW() WHERE %s = $1 AND %s IS NOT NULL`,
		schema.User.Table, schema.User.RefreshToken, schema.User.UpdatedAt,
		schema.User.ID, schema.User.RefreshToken)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_failed: %w", dberr.Wrap(err, resourceUser))
	}
	return nil
}

/*
UpdatePassword stores a new password hash and drops the refresh token in the same write.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NULL, %s = NOW() WHERE %s = $1`,
		schema.User.Table, schema.User.PasswordHash, schema.User.RefreshToken,
		schema.User.UpdatedAt, schema.User.ID)

	tag, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", dberr.Wrap(err, resourceUser))
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}
