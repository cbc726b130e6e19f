package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload a claim
// document. SessionID and FileName travel with the object as metadata so a
// stored document can be traced back to its intake session without a
// database lookup.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	SessionID   string
	FileName    string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	// GetPresignedURL returns a time-limited download link. downloadName,
	// when non-empty, becomes the filename the browser saves the document
	// as, regardless of the storage key.
	GetPresignedURL(ctx context.Context, bucket, key, downloadName string, expirySeconds int64) (string, error)
}
