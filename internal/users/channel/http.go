// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// Handler implements the channel and watch history endpoints.
type Handler struct {
	channelService *Service
	requireUser    func(http.Handler) http.Handler
}

// NewHandler constructs a channel [Handler].
func NewHandler(service *Service, requireUser func(http.Handler) http.Handler) *Handler {
	return &Handler{channelService: service, requireUser: requireUser}
}

// RegisterRoutes attaches the channel endpoints to router.
//
// # Endpoints
//   - GET    /channel/{username}              : Channel profile.
//   - POST   /channel/{username}/subscription : Subscribe.
//   - DELETE /channel/{username}/subscription : Unsubscribe.
//   - GET    /watch-history                   : Caller's history.
//   - POST   /watch-history/{videoId}         : Append a view.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, handler.requireUser)

		r.Get("/channel/{username}", handler.getChannelProfile)
		r.Post("/channel/{username}/subscription", handler.subscribe)
		r.Delete("/channel/{username}/subscription", handler.unsubscribe)

		r.Get("/watch-history", handler.getWatchHistory)
		r.Post("/watch-history/{videoId}", handler.recordView)
	})
}

/*
GET /api/v1/users/channel/{username}.

Response:
  - 200: Profile
  - 400: Blank handle
  - 404: Channel does not exist
*/
func (handler *Handler) getChannelProfile(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.GetChannelProfile(request.Context(), requestutil.Param(request, "username"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "User channel fetched successfully")
}

func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.channelService.Subscribe(request.Context(), userID, requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{}, "Subscribed successfully")
}

func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.channelService.Unsubscribe(request.Context(), userID, requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{}, "Unsubscribed successfully")
}

/*
GET /api/v1/users/watch-history.

Response:
  - 200: []WatchedVideo in watch order
*/
func (handler *Handler) getWatchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videos, err := handler.channelService.GetWatchHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, videos, "Watch history fetched successfully")
}

func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.channelService.RecordView(request.Context(), userID, requestutil.Param(request, "videoId")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, struct{}{}, "View recorded")
}
