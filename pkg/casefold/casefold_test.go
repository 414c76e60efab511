// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package casefold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidtube/pkg/casefold"
)

/*
TestString covers trimming, lowering and Unicode folding.
*/
func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already_folded", "alice", "alice"},
		{"upper_ascii", "ALICE", "alice"},
		{"mixed_with_spaces", "  AlIcE  ", "alice"},
		{"email", "A@X.com", "a@x.com"},
		{"sharp_s", "STRASSE", "strasse"},
		{"fullwidth_letters", "ＡＬＩＣＥ", "alice"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, casefold.String(tt.input))
		})
	}
}

/*
TestEqual verifies case-insensitive comparison of handles.
*/
func TestEqual(t *testing.T) {
	assert.True(t, casefold.Equal("Alice", "aLICE"))
	assert.True(t, casefold.Equal("Straße", "STRASSE"))
	assert.False(t, casefold.Equal("alice", "alicia"))
}
