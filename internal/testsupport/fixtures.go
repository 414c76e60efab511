// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// PNG is a minimal byte sequence detected as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewTokenService builds a token service with distinct test secrets.
func NewTokenService(t testing.TB) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(sec.TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "vidtube.test",
	})
	require.NoError(t, err)
	return tokens
}

// StagePNG writes a PNG into a temp file and returns it staged under field.
func StagePNG(t testing.TB, field string) *media.Staged {
	t.Helper()
	file, err := os.CreateTemp(t.TempDir(), "staged-*")
	require.NoError(t, err)
	_, err = file.Write(PNG)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return &media.Staged{
		Field:       field,
		Path:        file.Name(),
		Filename:    field + ".png",
		ContentType: "image/png",
		Size:        int64(len(PNG)),
	}
}

// FilePart is one file of a multipart body.
type FilePart struct {
	Field    string
	Filename string
	Body     []byte
}

// MultipartRequest builds a multipart request from text fields and files.
func MultipartRequest(t testing.TB, method, target string, fields map[string]string, files ...FilePart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		require.NoError(t, err)
		_, err = part.Write(file.Body)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(method, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

// JSONRequest builds a request with payload encoded as JSON.
func JSONRequest(t testing.TB, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, target, body)
	request.Header.Set("Content-Type", "application/json")
	return request
}

// Envelope is the decoded shape of every API response.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// DecodeEnvelope parses the recorded response and optionally its data into target.
func DecodeEnvelope(t testing.TB, recorder *httptest.ResponseRecorder, target any) Envelope {
	t.Helper()

	var envelope Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), recorder.Body.String())
	if target != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, target))
	}
	return envelope
}
