package deploy

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
)

// Reporter writes the human-readable status lines of a deploy.
type Reporter struct {
	out io.Writer
}

// NewReporter returns a Reporter writing to out. A nil out discards output.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}

	return &Reporter{out: out}
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Start announces the deploy.
func (r *Reporter) Start() {
	r.printf("🚀 Uploading Task Tracker files to S3...")
}

// BucketExisted reports that the bucket was already present.
func (r *Reporter) BucketExisted(bucket string) {
	r.printf("✅ Bucket %s already exists", bucket)
}

// BucketCreated reports that the bucket was created.
func (r *Reporter) BucketCreated(bucket string) {
	r.printf("✅ Created bucket %s", bucket)
}

// BucketCheckFailed reports a head-bucket failure that was not a missing bucket.
func (r *Reporter) BucketCheckFailed(err error) {
	r.printf("❌ Error checking bucket: %v", err)
}

// BucketCreateFailed reports a failed bucket creation.
func (r *Reporter) BucketCreateFailed(err error) {
	r.printf("❌ Error creating bucket: %v", err)
}

// Uploaded reports a successful upload.
func (r *Reporter) Uploaded(path, bucket, key string, size int64) {
	r.printf("✅ Uploaded %s to s3://%s/%s (%s)", path, bucket, key, units.HumanSize(float64(size)))
}

// Skipped reports a missing local file.
func (r *Reporter) Skipped(path string) {
	r.printf("⚠️  File %s not found, skipping...", path)
}

// UploadFailed reports a failed upload.
func (r *Reporter) UploadFailed(path string, err error) {
	r.printf("❌ Error uploading %s: %v", path, err)
}

// Summary prints the final tally.
func (r *Reporter) Summary(s *Summary) {
	r.printf("\n✅ Upload complete: %d/%d files uploaded", s.Uploaded, s.Total)
	r.printf("📦 Bucket: %s", s.Bucket)
}
