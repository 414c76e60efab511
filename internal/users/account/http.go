// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// Handler implements the caller's own profile endpoints.
type Handler struct {
	accountService *Service
	requireUser    func(http.Handler) http.Handler
	maxUploadBytes int64
}

// NewHandler constructs a new account [Handler]. requireUser is the session
// guard that loads the caller's record.
func NewHandler(service *Service, requireUser func(http.Handler) http.Handler, maxUploadBytes int64) *Handler {
	return &Handler{accountService: service, requireUser: requireUser, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the profile endpoints to router. Every route
// requires an authenticated caller.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, handler.requireUser)

		r.Get("/current-user", handler.getCurrentUser)
		r.Patch("/update-account-details", handler.updateAccountDetails)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
	})
}

// # User Profile Endpoints

/*
GET /api/v1/users/current-user.

Response:
  - 200: User: The caller's profile
  - 401: Authentication required
*/
func (handler *Handler) getCurrentUser(writer http.ResponseWriter, request *http.Request) {
	if user := auth.CurrentUser(request.Context()); user != nil {
		respond.OK(writer, user, "User fetched successfully")
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "User fetched successfully")
}

/*
PATCH /api/v1/users/update-account-details.

Request:
  - body: Details (fullName, email, username; all required)

Response:
  - 200: User: The updated profile
  - 400: Missing fields
  - 409: Email or username held by another user
*/
func (handler *Handler) updateAccountDetails(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Details
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respondUpdated(writer, request, user, "Account details updated successfully")
}

/*
PATCH /api/v1/users/avatar.

Request:
  - body: multipart with a single avatar file

Response:
  - 200: User: The updated profile
  - 400: Missing or unusable file
  - 500: Previous avatar could not be deleted
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar, "Avatar updated successfully")
}

/*
PATCH /api/v1/users/cover-image.

Request:
  - body: multipart with a single coverImage file

Response:
  - 200: User: The updated profile
  - 400: Missing or unusable file
  - 500: Previous cover image could not be deleted
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.replaceImage(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(context context.Context, userID string, file *media.Staged) (*auth.User, error)

func (handler *Handler) replaceImage(writer http.ResponseWriter, request *http.Request, field string, update imageUpdater, message string) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := media.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer media.ReleaseMultipart(request)

	staged, err := media.StageFormFile(request, field)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer staged.Close()

	user, err := update(request.Context(), userID, staged)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respondUpdated(writer, request, user, message)
}

// respondUpdated re-attaches the updated record as the caller's identity and
// answers with that attached record.
func respondUpdated(writer http.ResponseWriter, request *http.Request, user *auth.User, message string) {
	request = request.WithContext(auth.WithCurrentUser(request.Context(), user.Sanitize()))
	respond.OK(writer, auth.CurrentUser(request.Context()), message)
}
