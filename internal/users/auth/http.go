// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService    *Service
	guard          *SessionGuard
	maxUploadBytes int64
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, guard *SessionGuard, maxUploadBytes int64) *Handler {
	return &Handler{authService: service, guard: guard, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches authentication endpoints to router.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart).
//   - POST /login           : Authenticates and sets session cookies.
//   - POST /refresh-token   : Rotates the refresh token.
//   - POST /logout          : Ends the session.
//   - POST /change-password : Replaces the password and ends every session.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, handler.guard.RequireUser)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})
}

// # Request Payloads

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Request:
  - Body: multipart (fullName, email, username, password, avatar, coverImage?)

Response:
  - 201: User: Created user profile
  - 400: Missing fields, missing avatar or failed avatar upload
  - 409: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := media.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer media.ReleaseMultipart(request)

	avatar, err := media.StageFormFile(request, FieldAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer avatar.Close()

	coverImage, err := media.StageFormFile(request, FieldCoverImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer coverImage.Close()

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName:   request.FormValue(FieldFullName),
		Email:      request.FormValue(FieldEmail),
		Username:   request.FormValue(FieldUsername),
		Password:   request.FormValue(FieldPassword),
		Avatar:     avatar,
		CoverImage: coverImage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Tokens are delivered twice, as cookies for browsers and in the
body for non-cookie clients.

Request:
  - Body: LoginInput (email or username, password)

Response:
  - 200: LoginSession
  - 400: Neither identifier supplied
  - 401: Wrong password
  - 404: Unknown user
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setCookies(writer, TokenPair{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken})
	respond.OK(writer, session, "User logged in successfully")
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Response:
  - 200: Session terminated, cookies cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.UserID, claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OK(writer, struct{}{}, "User logged out")
}

/*
RefreshToken rotates the session.

POST /api/v1/users/refresh-token

Description: The token is read from the refreshToken cookie, falling back to
the JSON body.

Response:
  - 200: TokenPair, cookies re-set
  - 401: Missing, invalid, expired or already-rotated token
  - 404: Token owner no longer exists
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	var token string
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		token = cookie.Value
	}

	if token == "" {
		var body refreshRequest
		if err := requestutil.DecodeOptionalJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		token = body.RefreshToken
	}

	pair, err := handler.authService.RefreshSession(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setCookies(writer, pair)
	respond.OK(writer, pair, "Access token refreshed")
}

/*
ChangePassword replaces the caller's password.

POST /api/v1/users/change-password

Response:
  - 200: Password changed, session cookies cleared
  - 400: Missing fields
  - 401: Wrong old password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), claims.UserID, input, claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)
	respond.OK(writer, struct{}{}, "Password changed successfully")
}

func (handler *Handler) setCookies(writer http.ResponseWriter, pair TokenPair) {
	accessTTL, refreshTTL := handler.authService.SessionTTLs()
	setSessionCookies(writer, pair, accessTTL, refreshTTL)
}
