// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Password Hashing

// PasswordCost is the bcrypt work factor for account passwords. Hashes stored
// at a lower cost are upgraded on the next successful login.
const PasswordCost = 10

// MaxPasswordBytes is the bcrypt input limit; longer secrets are rejected, not truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned when the plain text exceeds [MaxPasswordBytes].
var ErrPasswordTooLong = errors.New("sec: password exceeds 72 bytes")

// HashPassword hashes an account password at [PasswordCost].
func HashPassword(plainTextPassword string) (string, error) {
	if len(plainTextPassword) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash reports whether plainTextPassword matches existingHash.
// A malformed hash never matches.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword)) == nil
}

// NeedsRehash reports whether existingHash was produced below [PasswordCost].
// Unparseable hashes report false; they cannot have passed [CheckPasswordHash].
func NeedsRehash(existingHash string) bool {
	cost, err := bcrypt.Cost([]byte(existingHash))
	if err != nil {
		return false
	}
	return cost < PasswordCost
}
