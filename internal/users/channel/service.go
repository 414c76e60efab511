// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/casefold"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Service implements the channel and watch history use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a channel [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
GetChannelProfile returns the channel projection of the user with the given handle.

Parameters:
  - context: context.Context
  - username: string (any case)
  - viewerID: string (the caller)

Returns:
  - *Profile: Counts and isSubscribed relative to viewerID
  - error: BadRequest on a blank handle, NotFound if no user matches
*/
func (service *Service) GetChannelProfile(context context.Context, username, viewerID string) (*Profile, error) {
	handle := casefold.String(username)
	if handle == "" {
		return nil, apperr.BadRequest("username is missing")
	}

	profile, err := service.repository.FindProfile(context, handle, viewerID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("channel_service_profile_failed: %w", err)
	}
	return profile, nil
}

/*
GetWatchHistory returns the caller's watched videos in the stored order.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []WatchedVideo: Possibly empty, never nil
  - error: BadRequest on a blank id, or storage failures
*/
func (service *Service) GetWatchHistory(context context.Context, userID string) ([]WatchedVideo, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.BadRequest("user id is missing")
	}

	videos, err := service.repository.FindWatchHistory(context, userID)
	if err != nil {
		return nil, fmt.Errorf("channel_service_watch_history_failed: %w", err)
	}
	if videos == nil {
		videos = []WatchedVideo{}
	}
	return videos, nil
}

// # Relationship Writes

/*
Subscribe makes the caller a subscriber of the channel. Repeating it is a no-op.

Returns:
  - error: BadRequest on a blank handle or a self-subscription, NotFound
*/
func (service *Service) Subscribe(context context.Context, subscriberID, username string) error {
	channelID, err := service.resolveChannel(context, subscriberID, username)
	if err != nil {
		return err
	}

	if err := service.repository.Subscribe(context, subscriberID, channelID); err != nil {
		return fmt.Errorf("channel_service_subscribe_failed: %w", err)
	}

	service.logger.InfoContext(context, "channel_subscribed",
		slog.String("subscriber_id", subscriberID),
		slog.String("channel_id", channelID),
	)
	return nil
}

// Unsubscribe removes the caller's subscription to the channel, if any.
func (service *Service) Unsubscribe(context context.Context, subscriberID, username string) error {
	channelID, err := service.resolveChannel(context, subscriberID, username)
	if err != nil {
		return err
	}

	if err := service.repository.Unsubscribe(context, subscriberID, channelID); err != nil {
		return fmt.Errorf("channel_service_unsubscribe_failed: %w", err)
	}
	return nil
}

/*
RecordView appends a video to the caller's watch history. Duplicates are kept.

Returns:
  - error: BadRequest on a malformed id, NotFound if the video does not exist
*/
func (service *Service) RecordView(context context.Context, userID, videoID string) error {
	var v validate.Validator
	if err := v.UUID(FieldVideoID, videoID).ErrMessage("videoId is not a valid id"); err != nil {
		return err
	}
	id, _ := uuid.Canonical(videoID)

	if err := service.repository.RecordView(context, userID, id); err != nil {
		return fmt.Errorf("channel_service_record_view_failed: %w", err)
	}
	return nil
}

func (service *Service) resolveChannel(context context.Context, subscriberID, username string) (string, error) {
	handle := casefold.String(username)
	if handle == "" {
		return "", apperr.BadRequest("username is missing")
	}

	channelID, err := service.repository.FindChannelID(context, handle)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("Channel")
		}
		return "", fmt.Errorf("channel_service_resolve_failed: %w", err)
	}

	if channelID == subscriberID {
		return "", apperr.BadRequest("You cannot subscribe to your own channel")
	}
	return channelID, nil
}
