// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidtube/pkg/uuid"
)

func TestNew_IsTimeOrderedAndUnique(t *testing.T) {
	first, second := uuid.New(), uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14], "version nibble")
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13], "v7 ids sort by creation time")
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0190d7a4-3c2b-7f00-8a11-2b3c4d5e6f70", "0190d7a4-3c2b-7f00-8a11-2b3c4d5e6f70", true},
		{"0190D7A4-3C2B-7F00-8A11-2B3C4D5E6F70", "0190d7a4-3c2b-7f00-8a11-2b3c4d5e6f70", true},
		{"{0190d7a4-3c2b-7f00-8a11-2b3c4d5e6f70}", "", false},
		{"0190d7a43c2b7f008a112b3c4d5e6f70", "", false},
		{"not-a-uuid", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := uuid.Canonical(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
