// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testsupport

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/media"
)

// ErrStub is the error returned by stubs configured to fail.
var ErrStub = errors.New("testsupport: stub failure")

// # Media

// MediaStoreStub is an in-memory media.Store that records every call.
type MediaStoreStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	counter int

	// Calls lists "upload:<field>" and "delete:<url>" in call order.
	Calls []string

	FailUpload map[string]bool // keyed by staged field
	FailDelete bool
}

var _ media.Store = (*MediaStoreStub)(nil)

// NewMediaStoreStub constructs an empty MediaStoreStub.
func NewMediaStoreStub() *MediaStoreStub {
	return &MediaStoreStub{objects: make(map[string][]byte), FailUpload: make(map[string]bool)}
}

// Upload reads the staged bytes and stores them under a sequential URL.
func (m *MediaStoreStub) Upload(_ context.Context, file *media.Staged) (media.Reference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "upload:"+file.Field)
	if m.FailUpload[file.Field] {
		return media.Reference{}, ErrStub
	}

	body, err := os.ReadFile(file.Path)
	if err != nil {
		return media.Reference{}, err
	}

	m.counter++
	key := file.Field + "/" + time.Now().UTC().Format("20060102") + "-" + strconv.Itoa(m.counter) + file.Ext()
	url := "https://media.test/" + key
	m.objects[url] = body
	return media.Reference{Key: key, URL: url}, nil
}

// Delete removes the object.
func (m *MediaStoreStub) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "delete:"+url)
	if m.FailDelete {
		return ErrStub
	}
	delete(m.objects, url)
	return nil
}

// Has reports whether url is currently stored.
func (m *MediaStoreStub) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

// Seed stores an object under url.
func (m *MediaStoreStub) Seed(url string) {
	m.mu.Lock()
	m.objects[url] = []byte("seed")
	m.mu.Unlock()
}

// # Revocation

// RevocationStoreStub is an in-memory access-token denylist.
type RevocationStoreStub struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	// Err, when set, is returned by every call.
	Err error
}

// NewRevocationStoreStub constructs an empty RevocationStoreStub.
func NewRevocationStoreStub() *RevocationStoreStub {
	return &RevocationStoreStub{entries: make(map[string]time.Time)}
}

// Revoke records the token id until the given instant.
func (r *RevocationStoreStub) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.entries[tokenID] = until
	return nil
}

// IsRevoked reports whether the token id is denylisted and not yet expired.
func (r *RevocationStoreStub) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return false, r.Err
	}
	until, ok := r.entries[tokenID]
	return ok && time.Now().Before(until), nil
}

// Len reports the number of recorded entries.
func (r *RevocationStoreStub) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
