// Package uploader stores event images and returns their public URLs.
package uploader

import (
	"context"
	"errors"
	"io"
	"path"
)

// ErrNoFiles is returned when an upload carries no images
var ErrNoFiles = errors.New("no images to upload")

// File is one image to upload
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageUploader stores images under a folder and returns their public URLs
type ImageUploader interface {
	Upload(ctx context.Context, folder string, files []File) ([]string, error)
}

// EventFolder is the folder images of a tenant's events are stored under
func EventFolder(tenantID string) string {
	return path.Join("events", tenantID)
}
