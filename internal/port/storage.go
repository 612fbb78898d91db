package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
// Metadata travels with the object; the document fingerprint is stored
// there so the original can be matched back to its records without a
// database lookup.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations. Download is
// used by the extraction worker to pull the original document bytes.
// Presigned URLs carry the original invoice filename so reviewer
// downloads keep it.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key, filename string, expirySeconds int64) (string, error)
}
