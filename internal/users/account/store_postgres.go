// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// resourceUser names the entity in storage errors.
const resourceUser = "User"

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s u WHERE u.%s = $1`,
		auth.SelectUserColumns, schema.User.Table, schema.User.ID)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

/*
UpdateDetails writes the three identity columns and returns the stored row.

Description: The unique indexes on email and username turn a collision with
another account into apperr.Conflict.

Parameters:
  - context: context.Context
  - id: string
  - details: Details

Returns:
  - *auth.User: Row after the write
  - error: apperr.NotFound, apperr.Conflict or database errors
*/
func (repository *PostgresAccountRepository) UpdateDetails(context context.Context, id string, details Details) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s u SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE u.%s = $1
		RETURNING %s`,
		schema.User.Table,
		schema.User.FullName, schema.User.Email, schema.User.Username, schema.User.UpdatedAt,
		schema.User.ID,
		auth.SelectUserColumns,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, details.FullName, details.Email, details.Username))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

// UpdateAvatar stores a new avatar URL and returns the stored row.
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, id, url string) (*auth.User, error) {
	return repository.updateColumn(context, id, schema.User.Avatar, url)
}

// UpdateCoverImage stores a new cover image URL and returns the stored row.
func (repository *PostgresAccountRepository) UpdateCoverImage(context context.Context, id, url string) (*auth.User, error) {
	return repository.updateColumn(context, id, schema.User.CoverImage, url)
}

// updateColumn sets one text column; column is always a schema constant.
func (repository *PostgresAccountRepository) updateColumn(context context.Context, id, column, value string) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s u SET %s = $2, %s = NOW()
		WHERE u.%s = $1
		RETURNING %s`,
		schema.User.Table, column, schema.User.UpdatedAt,
		schema.User.ID,
		auth.SelectUserColumns,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, value))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_update_%s_failed: %w", column, dberr.Wrap(err, resourceUser))
	}
	return user, nil
}
