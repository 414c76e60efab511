// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package casefold produces the canonical comparison form of user handles and
// email addresses.
//
// # Transformation Pipeline
//
//  1. Trims surrounding whitespace.
//  2. Normalizes to NFKC so visually identical compositions compare equal.
//  3. Applies full Unicode case folding ("Straße" and "STRASSE" fold alike).
//
// Every uniqueness check and every lookup by handle or email must go through
// [String]; the stored value is always the folded form.
package casefold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// String returns the folded form of s.
func String(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	// A Caser keeps internal state, so each call gets its own.
	return cases.Fold().String(norm.NFKC.String(trimmed))
}

// Equal reports whether a and b are equal after folding.
func Equal(a, b string) bool {
	return String(a) == String(b)
}
