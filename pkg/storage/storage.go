package storage

import (
	"context"
	"io"
)

// ObjectStore is the subset of an object-storage service used for deploys.
type ObjectStore interface {
	// HeadBucket checks that the bucket exists and is accessible.
	// A missing bucket yields an error matching ErrBucketNotFound.
	HeadBucket(ctx context.Context, bucket string) error

	// CreateBucket creates the bucket in the configured region.
	CreateBucket(ctx context.Context, bucket string) error

	// PutObject uploads body to bucket/key with the given content type.
	// size is the content length in bytes.
	PutObject(
		ctx context.Context,
		bucket, key string,
		body io.Reader,
		size int64,
		contentType string,
	) error
}
