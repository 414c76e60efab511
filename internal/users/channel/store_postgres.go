// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Aggregation Queries

/*
FindProfile computes the channel projection in a single statement.

Description: Both counts and the membership test are correlated subqueries on
the subscription table; only projected columns are selected.

Parameters:
  - context: context.Context
  - username: string (folded)
  - viewerID: string

Returns:
  - *Profile: The projection
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindProfile(context context.Context, username, viewerID string) (*Profile, error) {
	s := schema.Subscription
	query := fmt.Sprintf(`
		SELECT u.%s, u.%s, u.%s, u.%s, u.%s,
			(SELECT COUNT(*) FROM %s s WHERE s.%s = u.%s),
			(SELECT COUNT(*) FROM %s s WHERE s.%s = u.%s),
			EXISTS (SELECT 1 FROM %s s WHERE s.%s = u.%s AND s.%s::text = $2)
		FROM %s u
		WHERE u.%s = $1`,
		schema.User.FullName, schema.User.Username, schema.User.Email, schema.User.Avatar, schema.User.CoverImage,
		s.Table, s.ChannelID, schema.User.ID,
		s.Table, s.SubscriberID, schema.User.ID,
		s.Table, s.ChannelID, schema.User.ID, s.SubscriberID,
		schema.User.Table,
		schema.User.Username,
	)

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, username, viewerID).Scan(
		&profile.FullName,
		&profile.Username,
		&profile.Email,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Channel")
	}
	return profile, nil
}

/*
FindWatchHistory joins the history with videos and their owners in one query.

Description: Rows come back in insertion order of the history entries;
repeated views of a video appear once per view.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []WatchedVideo: Possibly empty
  - error: Database errors
*/
func (repository *PostgresRepository) FindWatchHistory(context context.Context, userID string) ([]WatchedVideo, error) {
	w, v, o := schema.WatchHistory, schema.Video, schema.User
	query := fmt.Sprintf(`
		SELECT v.%s::text, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s, v.%s,
			o.%s, o.%s, o.%s
		FROM %s w
		JOIN %s v ON v.%s = w.%s
		JOIN %s o ON o.%s = v.%s
		WHERE w.%s = $1
		ORDER BY w.%s`,
		v.ID, v.Title, v.Description, v.VideoFile, v.Thumbnail, v.Duration, v.Views, v.IsPublished, v.CreatedAt,
		o.FullName, o.Username, o.Avatar,
		w.Table,
		v.Table, v.ID, w.VideoID,
		o.Table, o.ID, v.OwnerID,
		w.UserID,
		w.ID,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_channel_repo_watch_history_failed: %w", dberr.Wrap(err, "Watch history"))
	}

	defer rows.Close()

	videos := []WatchedVideo{}
	for rows.Next() {
		var video WatchedVideo
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Description,
			&video.VideoFile,
			&video.Thumbnail,
			&video.Duration,
			&video.Views,
			&video.IsPublished,
			&video.CreatedAt,
			&video.Owner.FullName,
			&video.Owner.Username,
			&video.Owner.Avatar,
		); err != nil {
			return nil, fmt.Errorf("postgres_channel_repo_watch_history_scan_failed: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_channel_repo_watch_history_rows_failed: %w", err)
	}
	return videos, nil
}

// # Relationship Writes

// FindChannelID resolves a folded handle to a user id.
func (repository *PostgresRepository) FindChannelID(context context.Context, username string) (string, error) {
	query := fmt.Sprintf(`SELECT %s::text FROM %s WHERE %s = $1`,
		schema.User.ID, schema.User.Table, schema.User.Username)

	var id string
	if err := repository.pool.QueryRow(context, query, username).Scan(&id); err != nil {
		return "", dberr.Wrap(err, "Channel")
	}
	return id, nil
}

// Subscribe inserts the subscription edge unless it already exists.
func (repository *PostgresRepository) Subscribe(context context.Context, subscriberID, channelID string) error {
	s := schema.Subscription
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING`,
		s.Table, s.ID, s.SubscriberID, s.ChannelID,
		s.SubscriberID, s.ChannelID,
	)

	if _, err := repository.pool.Exec(context, query, uuid.New(), subscriberID, channelID); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return dberr.Wrap(pgx.ErrNoRows, "Channel")
		}
		return fmt.Errorf("postgres_channel_repo_subscribe_failed: %w", dberr.Wrap(err, "Subscription"))
	}
	return nil
}

// Unsubscribe deletes the subscription edge if present.
func (repository *PostgresRepository) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	s := schema.Subscription
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		s.Table, s.SubscriberID, s.ChannelID)

	if _, err := repository.pool.Exec(context, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("postgres_channel_repo_unsubscribe_failed: %w", dberr.Wrap(err, "Subscription"))
	}
	return nil
}

/*
RecordView appends a history entry for an existing video.

Description: INSERT ... SELECT writes nothing when the video is absent, which
is reported as apperr.NotFound.
*/
func (repository *PostgresRepository) RecordView(context context.Context, userID, videoID string) error {
	w, v := schema.WatchHistory, schema.Video
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1::uuid, v.%s FROM %s v WHERE v.%s = $2`,
		w.Table, w.UserID, w.VideoID,
		v.ID, v.Table, v.ID,
	)

	tag, err := repository.pool.Exec(context, query, userID, videoID)
	if err != nil {
		return fmt.Errorf("postgres_channel_repo_record_view_failed: %w", dberr.Wrap(err, "Video"))
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Video")
	}
	return nil
}
