package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tasktracker/assetuploader/pkg/fsutil"
	"github.com/tasktracker/assetuploader/pkg/storage"
)

// ErrBucketUnavailable is returned when the bucket neither exists nor could
// be created. Nothing can be uploaded after it.
var ErrBucketUnavailable = errors.New("bucket unavailable")

// BucketState is the outcome of a successful EnsureBucket.
type BucketState int

const (
	// BucketExisted means the bucket was already present.
	BucketExisted BucketState = iota
	// BucketCreated means the bucket was created by this run.
	BucketCreated
)

func (s BucketState) String() string {
	switch s {
	case BucketExisted:
		return "existed"
	case BucketCreated:
		return "created"
	default:
		return "unknown"
	}
}

// Status is the outcome of a single file upload.
type Status int

const (
	StatusUploaded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUploaded:
		return "uploaded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of UploadFile.
type Outcome struct {
	Item   Item
	Status Status
	Size   int64
	Err    error // Set when Status is StatusFailed.
}

// Summary tallies a deploy run. Skipped and failed items count towards
// Total but not Uploaded.
type Summary struct {
	Bucket      string
	BucketState BucketState
	Total       int
	Uploaded    int
	Skipped     int
	Failed      int
	Outcomes    []Outcome
}

// Deployer ensures the bucket and uploads the deployment files.
type Deployer interface {
	// EnsureBucket makes sure the bucket exists, creating it only when the
	// store reports it missing.
	EnsureBucket(ctx context.Context) (BucketState, error)

	// UploadFile uploads one item. Failures are reported in the outcome,
	// never returned, so callers can continue with the next item.
	UploadFile(ctx context.Context, item Item) Outcome

	// Run ensures the bucket and uploads items in order.
	Run(ctx context.Context, items []Item) (*Summary, error)
}

// Config for the deployer.
type Config struct {
	Bucket   string
	BaseDir  string
	Reporter *Reporter
}

// NewDeployer creates a new deployer instance.
func NewDeployer(log logrus.FieldLogger, store storage.ObjectStore, cfg *Config) Deployer {
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = NewReporter(nil)
	}

	return &deployer{
		log:    log.WithField("component", "deployer"),
		store:  store,
		bucket: cfg.Bucket,
		base:   cfg.BaseDir,
		report: reporter,
	}
}

type deployer struct {
	log    logrus.FieldLogger
	store  storage.ObjectStore
	bucket string
	base   string
	report *Reporter
}

// Ensure interface compliance.
var _ Deployer = (*deployer)(nil)

func (d *deployer) EnsureBucket(ctx context.Context) (BucketState, error) {
	log := d.log.WithField("bucket", d.bucket)

	err := d.store.HeadBucket(ctx, d.bucket)
	if err == nil {
		d.report.BucketExisted(d.bucket)

		return BucketExisted, nil
	}

	// Only a missing bucket is created. Access denied usually means the
	// name belongs to another account, and anything else is a failed check.
	if !errors.Is(err, storage.ErrBucketNotFound) {
		log.WithError(err).Error("Bucket check failed")
		d.report.BucketCheckFailed(err)

		return 0, fmt.Errorf("%w: checking %s: %w", ErrBucketUnavailable, d.bucket, err)
	}

	log.Info("Bucket not found, creating")

	err = d.store.CreateBucket(ctx, d.bucket)
	switch {
	case err == nil:
		d.report.BucketCreated(d.bucket)

		return BucketCreated, nil
	case errors.Is(err, storage.ErrBucketAlreadyOwned):
		log.Debug("Bucket appeared concurrently, continuing")
		d.report.BucketExisted(d.bucket)

		return BucketExisted, nil
	default:
		log.WithError(err).Error("Bucket creation failed")
		d.report.BucketCreateFailed(err)

		return 0, fmt.Errorf("%w: creating %s: %w", ErrBucketUnavailable, d.bucket, err)
	}
}

func (d *deployer) UploadFile(ctx context.Context, item Item) Outcome {
	out := Outcome{Item: item}
	log := d.log.WithFields(logrus.Fields{
		"source": item.SourcePath,
		"key":    item.Key,
	})

	if err := item.Validate(); err != nil {
		return d.fail(log, out, err)
	}

	path := fsutil.Resolve(d.base, item.SourcePath)

	info, found, err := fsutil.StatRegular(path)
	if err != nil {
		return d.fail(log, out, err)
	}

	if !found {
		log.WithField("path", path).Warn("Local file not found")
		d.report.Skipped(item.SourcePath)

		out.Status = StatusSkipped

		return out
	}

	f, err := os.Open(path)
	if err != nil {
		return d.fail(log, out, fmt.Errorf("opening file: %w", err))
	}
	defer func() { _ = f.Close() }()

	contentType := item.ResolveContentType(path)

	err = d.store.PutObject(ctx, d.bucket, item.Key, f, info.Size(), contentType)
	if err != nil {
		return d.fail(log, out, err)
	}

	log.WithFields(logrus.Fields{
		"size":         info.Size(),
		"content_type": contentType,
	}).Debug("Uploaded file")
	d.report.Uploaded(item.SourcePath, d.bucket, item.Key, info.Size())

	out.Status = StatusUploaded
	out.Size = info.Size()

	return out
}

func (d *deployer) fail(log logrus.FieldLogger, out Outcome, err error) Outcome {
	log.WithError(err).Error("Upload failed")
	d.report.UploadFailed(out.Item.SourcePath, err)

	out.Status = StatusFailed
	out.Err = err

	return out
}

func (d *deployer) Run(ctx context.Context, items []Item) (*Summary, error) {
	d.report.Start()

	state, err := d.EnsureBucket(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Bucket:      d.bucket,
		BucketState: state,
		Total:       len(items),
		Outcomes:    make([]Outcome, 0, len(items)),
	}

	for _, item := range items {
		out := d.UploadFile(ctx, item)

		switch out.Status {
		case StatusUploaded:
			summary.Uploaded++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}

		summary.Outcomes = append(summary.Outcomes, out)
	}

	d.log.WithFields(logrus.Fields{
		"bucket":   summary.Bucket,
		"uploaded": summary.Uploaded,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
		"total":    summary.Total,
	}).Info("Upload completed")
	d.report.Summary(summary)

	return summary, nil
}
