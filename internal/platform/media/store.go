// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import "context"

// Reference identifies an uploaded object.
type Reference struct {
	// Key is the object key inside the bucket.
	Key string `json:"key"`
	// URL is the public, stable address stored on the user record.
	URL string `json:"url"`
}

// Store is the object-store collaborator used by account operations.
type Store interface {

	/*
		Upload pushes the staged file and returns its reference.

		Parameters:
		  - context: context.Context
		  - file: *Staged

		Returns:
		  - Reference: Key and public URL
		  - error: Transport or store failures
	*/
	Upload(context context.Context, file *Staged) (Reference, error)

	/*
		Delete removes the object behind url. URLs that do not belong to the
		store are ignored.

		Parameters:
		  - context: context.Context
		  - url: string

		Returns:
		  - error: Transport or store failures
	*/
	Delete(context context.Context, url string) error
}
