// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid mints and checks the identifiers used across vidtube.

Users, videos, subscriptions and token ids are Version 7 values from
google/uuid: they sort by creation time, which keeps the uuid primary keys of
PostgreSQL append-mostly. Ids arriving from clients are accepted only in the
36-character hyphenated form and are lowered before they reach a query.
*/
package uuid

import "github.com/google/uuid"

// canonicalLength is the hyphenated 8-4-4-4-12 form.
const canonicalLength = 36

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// # Client Input

// Canonical returns s in lowercase hyphenated form. Braced, URN and
// unhyphenated spellings are rejected even though google/uuid parses them.
func Canonical(s string) (string, bool) {
	if len(s) != canonicalLength {
		return "", false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Valid reports whether s is accepted by [Canonical].
func Valid(s string) bool {
	_, ok := Canonical(s)
	return ok
}
