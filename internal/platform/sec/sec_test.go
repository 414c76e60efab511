// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/vidtube/internal/platform/sec"
)

func newTokens(t *testing.T, accessTTL time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     accessTTL,
		RefreshTTL:    time.Hour,
		Issuer:        "vidtube.test",
	})
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_RejectsBadConfig covers empty, equal and non-positive settings.
*/
func TestNewTokenService_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  sec.TokenConfig
	}{
		{"empty_access", sec.TokenConfig{RefreshSecret: []byte("r"), AccessTTL: time.Minute, RefreshTTL: time.Minute}},
		{"equal_secrets", sec.TokenConfig{AccessSecret: []byte("s"), RefreshSecret: []byte("s"), AccessTTL: time.Minute, RefreshTTL: time.Minute}},
		{"zero_ttl", sec.TokenConfig{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), RefreshTTL: time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.cfg)
			assert.Error(t, err)
		})
	}
}

/*
TestAccessToken_RoundTrip checks identity claims and a unique jti.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	tokens := newTokens(t, time.Minute)
	subject := sec.Subject{UserID: "u-1", Email: "a@x.io", Username: "alice", FullName: "Alice A"}

	first, err := tokens.GenerateAccessToken(subject)
	require.NoError(t, err)
	second, err := tokens.GenerateAccessToken(subject)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := tokens.VerifyAccessToken(first)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice A", claims.FullName)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, tokens.AccessTTL(), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

/*
TestTokens_NotInterchangeable ensures a refresh token never verifies as an access token.
*/
func TestTokens_NotInterchangeable(t *testing.T) {
	tokens := newTokens(t, time.Minute)

	refresh, err := tokens.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	access, err := tokens.GenerateAccessToken(sec.Subject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = tokens.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	claims, err := tokens.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

/*
TestVerify_RejectsExpiredAndTampered covers the remaining failure modes.
*/
func TestVerify_RejectsExpiredAndTampered(t *testing.T) {
	tokens := newTokens(t, time.Minute)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, sec.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vidtube.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: "u-1",
	})
	signed, err := expired.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	valid, err := tokens.GenerateAccessToken(sec.Subject{UserID: "u-1"})
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	_, err = tokens.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, sec.AccessClaims{UserID: "u-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.VerifyAccessToken(unsigned)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestPasswordHash covers bcrypt hashing, verification and the 72-byte limit.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, sec.CheckPasswordHash("s3cret!", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))

	_, err = sec.HashPassword(strings.Repeat("a", sec.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)

	assert.False(t, sec.NeedsRehash(hash))
}

/*
TestNeedsRehash flags hashes stored below the current work factor.
*/
func TestNeedsRehash(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, sec.NeedsRehash(string(weak)))
	assert.True(t, sec.CheckPasswordHash("s3cret!", string(weak)))
	assert.False(t, sec.NeedsRehash("not-a-bcrypt-hash"))
}
