// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// Session cookies are always HttpOnly, Secure and SameSite=Strict.

func setSessionCookies(writer http.ResponseWriter, pair TokenPair, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(writer, sessionCookie(constants.AccessTokenCookieName, pair.AccessToken, accessTTL))
	http.SetCookie(writer, sessionCookie(constants.RefreshTokenCookieName, pair.RefreshToken, refreshTTL))
}

func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := sessionCookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		http.SetCookie(writer, cookie)
	}
}

func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}
