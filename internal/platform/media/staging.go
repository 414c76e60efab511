// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media handles user-supplied images: local staging of multipart uploads
and delegation to an S3-compatible object store.

Lifecycle:

  - StageFormFile copies exactly one multipart part into a temp file.
  - A [Store] uploads the staged bytes and returns a public reference URL.
  - Staged.Close removes the temp file; handlers defer it immediately so the
    file is gone on every exit path.
*/
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

const (
	// sniffLen is the number of leading bytes used for content detection.
	sniffLen = 512

	// memoryThreshold is how much of a multipart form stays in memory.
	memoryThreshold = 1 << 20
)

// Staged is an uploaded image held in a local temp file until it is pushed to the store.
type Staged struct {
	// Field is the multipart field the file arrived in (e.g. "avatar").
	Field string
	// Path is the temp file location on local disk.
	Path string
	// Filename is the client-supplied base name, used only for the extension.
	Filename string
	// ContentType is detected from the file bytes, not trusted from the client.
	ContentType string
	// Size is the byte length of the staged file.
	Size int64
}

// Open returns a reader over the staged bytes.
func (staged *Staged) Open() (*os.File, error) {
	return os.Open(staged.Path)
}

// Ext returns the lower-cased extension of the client filename, or one derived
// from the detected content type.
func (staged *Staged) Ext() string {
	if ext := strings.ToLower(filepath.Ext(staged.Filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch staged.ContentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

// Close removes the temp file. It is safe to call on a nil receiver and more than once.
func (staged *Staged) Close() error {
	if staged == nil || staged.Path == "" {
		return nil
	}
	err := os.Remove(staged.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

/*
ParseMultipart caps the request body at maxBytes and parses it as a multipart form.

Parts larger than the in-memory threshold spill to temp files; callers release
them with [ReleaseMultipart].

Returns:
  - apperr.BadRequest when the body is not multipart or exceeds maxBytes
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(memoryThreshold); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.BadRequest(fmt.Sprintf("Upload exceeds %d bytes", maxBytes))
		}
		return apperr.BadRequest("Invalid multipart payload")
	}
	return nil
}

// ReleaseMultipart removes any temp files the parsed form spilled to disk.
func ReleaseMultipart(request *http.Request) {
	if request.MultipartForm != nil {
		_ = request.MultipartForm.RemoveAll()
	}
}

/*
StageFormFile copies the single file submitted under field into a temp file.

The request's multipart form must already be parsed.

Returns:
  - (nil, nil) when the field is absent
  - apperr.BadRequest when more than one file is sent or the bytes are not an image
*/
func StageFormFile(request *http.Request, field string) (*Staged, error) {
	if request.MultipartForm == nil || request.MultipartForm.File == nil {
		return nil, nil
	}

	headers := request.MultipartForm.File[field]
	switch len(headers) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, apperr.BadRequest(fmt.Sprintf("Only one %s file is allowed", field))
	}

	header := headers[0]
	source, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("media_stage_open_failed: %w", err)
	}
	defer source.Close()

	target, err := os.CreateTemp("", "vidtube-upload-*")
	if err != nil {
		return nil, fmt.Errorf("media_stage_create_failed: %w", err)
	}

	staged := &Staged{
		Field:    field,
		Path:     target.Name(),
		Filename: filepath.Base(header.Filename),
	}

	size, copyErr := io.Copy(target, source)
	closeErr := target.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = staged.Close()
		return nil, fmt.Errorf("media_stage_copy_failed: %w", err)
	}
	staged.Size = size

	contentType, err := detectContentType(staged.Path)
	if err != nil {
		_ = staged.Close()
		return nil, fmt.Errorf("media_stage_sniff_failed: %w", err)
	}
	if size == 0 || !strings.HasPrefix(contentType, "image/") {
		_ = staged.Close()
		return nil, apperr.BadRequest(fmt.Sprintf("%s must be an image file", field))
	}
	staged.ContentType = contentType

	return staged, nil
}

func detectContentType(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, sniffLen)
	read, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(buffer[:read]), nil
}
