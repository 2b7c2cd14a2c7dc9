package storage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for classified object-store failures.
var (
	ErrBucketNotFound      = errors.New("bucket not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrBucketAlreadyExists = errors.New("bucket name already taken")
	ErrBucketAlreadyOwned  = errors.New("bucket already owned by you")
)

// Error describes a failed object-store operation. Kind holds the classified
// sentinel (nil when unclassified) and Err the underlying SDK error.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	target := e.Bucket
	if e.Key != "" {
		target += "/" + e.Key
	}

	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the classified kind so callers can use errors.Is with the
// sentinels while Error() still carries the SDK message.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// httpStatusError is satisfied by the SDK's transport response errors.
type httpStatusError interface {
	HTTPStatusCode() int
}

// classify maps an SDK error to one of the sentinels, or nil.
func classify(err error) error {
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return ErrBucketNotFound
	}

	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return ErrBucketNotFound
	}

	var alreadyExists *s3types.BucketAlreadyExists
	if errors.As(err, &alreadyExists) {
		return ErrBucketAlreadyExists
	}

	var alreadyOwned *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &alreadyOwned) {
		return ErrBucketAlreadyOwned
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return ErrBucketNotFound
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return ErrAccessDenied
		case "BucketAlreadyExists":
			return ErrBucketAlreadyExists
		case "BucketAlreadyOwnedByYou":
			return ErrBucketAlreadyOwned
		}
	}

	// HeadBucket has no response body, so some S3-compatible servers only
	// surface the status code.
	var statusErr httpStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return ErrBucketNotFound
		case http.StatusForbidden:
			return ErrAccessDenied
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchBucket"):
		return ErrBucketNotFound
	case strings.Contains(msg, "BucketAlreadyOwnedByYou"):
		return ErrBucketAlreadyOwned
	case strings.Contains(msg, "BucketAlreadyExists"):
		return ErrBucketAlreadyExists
	}

	return nil
}

// wrap builds an *Error for op, or returns nil when err is nil.
func wrap(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Kind:   classify(err),
		Err:    err,
	}
}
