// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel serves the relationship reads of the platform: a user viewed
as a channel with its subscription counts, and a user's watch history joined
with video and owner data.

Both reads return typed projections. The field selection is fixed in the
repository, so credential columns never reach a response.
*/
package channel

import (
	"context"
	"time"
)

// FieldVideoID names the watch-history path parameter in validation errors.
const FieldVideoID = "videoId"

// # Projections

// Profile is the public view of a user as a channel.
type Profile struct {
	FullName                  string  `json:"fullName"`
	Username                  string  `json:"username"`
	Email                     string  `json:"email"`
	Avatar                    string  `json:"avatar"`
	CoverImage                *string `json:"coverImage"`
	SubscribersCount          int64   `json:"subscribersCount"`
	ChannelsSubscribedToCount int64   `json:"channelsSubscribedToCount"`
	IsSubscribed              bool    `json:"isSubscribed"`
}

// Owner is the subset of the uploading user embedded in a watched video.
type Owner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// WatchedVideo is one entry of a watch history.
type WatchedVideo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	Owner       Owner     `json:"owner"`
}

// # Repository Contracts

// Repository defines the relationship queries.
type Repository interface {

	/*
		FindProfile resolves a channel by folded handle and computes its counts
		relative to viewerID.

		Returns:
		  - *Profile: The projection
		  - error: apperr.NotFound or storage failures
	*/
	FindProfile(context context.Context, username, viewerID string) (*Profile, error)

	/*
		FindWatchHistory returns the user's watched videos in watch order, each
		joined with its owner. An empty history yields an empty, non-nil slice.
	*/
	FindWatchHistory(context context.Context, userID string) ([]WatchedVideo, error)

	// FindChannelID resolves a folded handle to a user id.
	FindChannelID(context context.Context, username string) (string, error)

	// Subscribe records the edge; an existing edge is left untouched.
	Subscribe(context context.Context, subscriberID, channelID string) error

	// Unsubscribe removes the edge if present.
	Unsubscribe(context context.Context, subscriberID, channelID string) error

	// RecordView appends videoID to the user's history; apperr.NotFound if no such video.
	RecordView(context context.Context, userID, videoID string) error
}
