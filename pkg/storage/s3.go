package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
	"github.com/tasktracker/assetuploader/pkg/config"
)

// s3API is the part of *s3.Client used by S3Store.
type s3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements ObjectStore for S3-compatible storage.
type S3Store struct {
	log    logrus.FieldLogger
	region string
	client s3API
}

// Ensure interface compliance.
var _ ObjectStore = (*S3Store)(nil)

// NewS3Store creates an S3 store from the given configuration. Static
// credentials are used when configured, otherwise the SDK default chain.
func NewS3Store(
	ctx context.Context,
	log logrus.FieldLogger,
	cfg *config.S3Config,
) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = config.DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if cfg.HasStaticCredentials() {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}

		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return newS3Store(log, region, client), nil
}

func newS3Store(log logrus.FieldLogger, region string, client s3API) *S3Store {
	return &S3Store{
		log:    log.WithField("component", "s3-store"),
		region: region,
		client: client,
	}
}

// HeadBucket checks bucket existence.
func (s *S3Store) HeadBucket(ctx context.Context, bucket string) error {
	s.log.WithField("bucket", bucket).Debug("Checking bucket")

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})

	return wrap("HeadBucket", bucket, "", err)
}

// CreateBucket creates bucket. Outside us-east-1 the region is sent as the
// location constraint, which S3 requires there.
func (s *S3Store) CreateBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}

	if s.region != "" && s.region != config.DefaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(s.region),
		}
	}

	s.log.WithFields(logrus.Fields{
		"bucket": bucket,
		"region": s.region,
	}).Debug("Creating bucket")

	_, err := s.client.CreateBucket(ctx, input)

	return wrap("CreateBucket", bucket, "", err)
}

// PutObject uploads a single object.
func (s *S3Store) PutObject(
	ctx context.Context,
	bucket, key string,
	body io.Reader,
	size int64,
	contentType string,
) error {
	s.log.WithFields(logrus.Fields{
		"bucket":       bucket,
		"key":          key,
		"size":         size,
		"content_type": contentType,
	}).Debug("Uploading object")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})

	return wrap("PutObject", bucket, key, err)
}
