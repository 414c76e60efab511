// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testsupport provides in-memory collaborators for package tests.
package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/internal/users/channel"
	"github.com/taibuivan/vidtube/pkg/pointer"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Video is a seeded row of the video table.
type Video struct {
	ID        string
	OwnerID   string
	Title     string
	CreatedAt time.Time
}

type edge struct {
	subscriberID string
	channelID    string
}

// MemoryStore is a single in-memory record store implementing the user,
// account and channel repositories over shared state.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*auth.User
	videos  map[string]Video
	edges   map[edge]struct{}
	history map[string][]string

	// FailFindByID makes FindByID report NotFound for the given ids.
	FailFindByID map[string]bool
}

var (
	_ auth.UserRepository       = (*MemoryStore)(nil)
	_ account.AccountRepository = (*MemoryStore)(nil)
	_ channel.Repository        = (*MemoryStore)(nil)
)

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*auth.User),
		videos:       make(map[string]Video),
		edges:        make(map[edge]struct{}),
		history:      make(map[string][]string),
		FailFindByID: make(map[string]bool),
	}
}

// # Seeding & Inspection

// SeedUser stores a copy of user, assigning an id when empty, and returns the id.
func (s *MemoryStore) SeedUser(user auth.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New()
	}
	s.users[user.ID] = &user
	return user.ID
}

// SeedVideo stores a video owned by ownerID and returns its id.
func (s *MemoryStore) SeedVideo(ownerID, title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.videos[id] = Video{ID: id, OwnerID: ownerID, Title: title, CreatedAt: time.Now().UTC()}
	return id
}

// User returns a copy of the stored record, including credentials.
func (s *MemoryStore) User(id string) (*auth.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return s.copyLocked(user), true
}

// UserCount reports the number of stored users.
func (s *MemoryStore) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *MemoryStore) copyLocked(user *auth.User) *auth.User {
	clone := *user
	if user.RefreshToken != nil {
		clone.RefreshToken = pointer.To(*user.RefreshToken)
	}
	if user.CoverImage != nil {
		clone.CoverImage = pointer.To(*user.CoverImage)
	}
	clone.WatchHistory = append([]string{}, s.history[user.ID]...)
	return &clone
}

func (s *MemoryStore) findLocked(match func(*auth.User) bool) *auth.User {
	for _, user := range s.users {
		if match(user) {
			return user
		}
	}
	return nil
}

func (s *MemoryStore) takenLocked(id, email, username string) bool {
	return s.findLocked(func(u *auth.User) bool {
		return u.ID != id && (u.Email == email || u.Username == username)
	}) != nil
}

// # auth.UserRepository

// FindByID implements auth.UserRepository and account.AccountRepository.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok || s.FailFindByID[id] {
		return nil, apperr.NotFound("User")
	}
	return s.copyLocked(user), nil
}

// FindByLogin implements auth.UserRepository.
func (s *MemoryStore) FindByLogin(_ context.Context, email, username string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user := s.findLocked(func(u *auth.User) bool {
		return (email != "" && u.Email == email) || (username != "" && u.Username == username)
	})
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return s.copyLocked(user), nil
}

// Create implements auth.UserRepository.
func (s *MemoryStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takenLocked(user.ID, user.Email, user.Username) {
		return apperr.Conflict("User with email or username already exists")
	}
	now := time.Now().UTC()
	stored := *user
	stored.CreatedAt, stored.UpdatedAt = now, now
	stored.RefreshToken = nil
	s.users[user.ID] = &stored
	return nil
}

// UpdateRefreshToken implements auth.UserRepository.
func (s *MemoryStore) UpdateRefreshToken(_ context.Context, userID, expected, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || pointer.Val(user.RefreshToken) != expected {
		return false, nil
	}
	user.RefreshToken = pointer.NilIfZero(next)
	user.UpdatedAt = time.Now().UTC()
	return true, nil
}

// ClearRefreshToken implements auth.UserRepository.
func (s *MemoryStore) ClearRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[userID]; ok {
		user.RefreshToken = nil
	}
	return nil
}

// UpdatePassword implements auth.UserRepository.
func (s *MemoryStore) UpdatePassword(_ context.Context, userID, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	user.RefreshToken = nil
	return nil
}

// # account.AccountRepository

// UpdateDetails implements account.AccountRepository.
func (s *MemoryStore) UpdateDetails(_ context.Context, id string, details account.Details) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	if s.takenLocked(id, details.Email, details.Username) {
		return nil, apperr.Conflict("User with email or username already exists")
	}
	user.FullName, user.Email, user.Username = details.FullName, details.Email, details.Username
	return s.copyLocked(user), nil
}

// UpdateAvatar implements account.AccountRepository.
func (s *MemoryStore) UpdateAvatar(_ context.Context, id, url string) (*auth.User, error) {
	return s.mutate(id, func(u *auth.User) { u.Avatar = url })
}

// UpdateCoverImage implements account.AccountRepository.
func (s *MemoryStore) UpdateCoverImage(_ context.Context, id, url string) (*auth.User, error) {
	return s.mutate(id, func(u *auth.User) { u.CoverImage = pointer.To(url) })
}

func (s *MemoryStore) mutate(id string, apply func(*auth.User)) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	apply(user)
	return s.copyLocked(user), nil
}

// # channel.Repository

// FindProfile implements channel.Repository.
func (s *MemoryStore) FindProfile(_ context.Context, username, viewerID string) (*channel.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user := s.findLocked(func(u *auth.User) bool { return u.Username == username })
	if user == nil {
		return nil, apperr.NotFound("Channel")
	}

	profile := &channel.Profile{
		FullName:   user.FullName,
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}
	for e := range s.edges {
		if e.channelID == user.ID {
			profile.SubscribersCount++
			if e.subscriberID == viewerID {
				profile.IsSubscribed = true
			}
		}
		if e.subscriberID == user.ID {
			profile.ChannelsSubscribedToCount++
		}
	}
	return profile, nil
}

// FindWatchHistory implements channel.Repository.
func (s *MemoryStore) FindWatchHistory(_ context.Context, userID string) ([]channel.WatchedVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	videos := []channel.WatchedVideo{}
	for _, videoID := range s.history[userID] {
		video, ok := s.videos[videoID]
		if !ok {
			continue
		}
		owner := s.users[video.OwnerID]
		if owner == nil {
			continue
		}
		videos = append(videos, channel.WatchedVideo{
			ID:          video.ID,
			Title:       video.Title,
			IsPublished: true,
			CreatedAt:   video.CreatedAt,
			Owner: channel.Owner{
				FullName: owner.FullName,
				Username: owner.Username,
				Avatar:   owner.Avatar,
			},
		})
	}
	return videos, nil
}

// FindChannelID implements channel.Repository.
func (s *MemoryStore) FindChannelID(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user := s.findLocked(func(u *auth.User) bool { return u.Username == username })
	if user == nil {
		return "", apperr.NotFound("Channel")
	}
	return user.ID, nil
}

// Subscribe implements channel.Repository.
func (s *MemoryStore) Subscribe(_ context.Context, subscriberID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[edge{subscriberID: subscriberID, channelID: channelID}] = struct{}{}
	return nil
}

// Unsubscribe implements channel.Repository.
func (s *MemoryStore) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, edge{subscriberID: subscriberID, channelID: channelID})
	return nil
}

// RecordView implements channel.Repository.
func (s *MemoryStore) RecordView(_ context.Context, userID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[videoID]; !ok {
		return apperr.NotFound("Video")
	}
	s.history[userID] = append(s.history[userID], videoID)
	return nil
}
