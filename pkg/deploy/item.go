package deploy

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultBucket is the deployment bucket. Replace the placeholder with your
// student ID before running.
const DefaultBucket = "tasktracker-YOUR_STUDENT_ID-assets"

// DefaultContentType is used when neither the extension nor the content
// identify the file.
const DefaultContentType = "application/octet-stream"

const maxKeyLength = 1024

// Item is a single local file to upload.
type Item struct {
	SourcePath  string // Local path, relative to the base directory.
	Key         string // Destination object key.
	ContentType string // MIME type sent as upload metadata.
}

// DefaultItems returns the Task Tracker deployment files in upload order.
func DefaultItems() []Item {
	return []Item{
		{SourcePath: "../www/index.html", Key: "www/index.html", ContentType: "text/html"},
		{SourcePath: "../www/api.php", Key: "www/api.php", ContentType: "application/x-httpd-php"},
		{SourcePath: "../www/api-info.html", Key: "www/api-info.html", ContentType: "text/html"},
		{SourcePath: "../setup-database.sql", Key: "database/setup-database.sql", ContentType: "text/plain"},
	}
}

// Validate checks that the item has a source and a well-formed key.
func (i Item) Validate() error {
	if i.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}

	if i.Key == "" {
		return fmt.Errorf("key is required for %s", i.SourcePath)
	}

	if len(i.Key) > maxKeyLength {
		return fmt.Errorf("key for %s exceeds %d bytes", i.SourcePath, maxKeyLength)
	}

	if strings.HasPrefix(i.Key, "/") {
		return fmt.Errorf("key %q must not start with /", i.Key)
	}

	for _, segment := range strings.Split(i.Key, "/") {
		if segment == ".." {
			return fmt.Errorf("key %q must not contain .. segments", i.Key)
		}
	}

	if strings.IndexFunc(i.Key, unicode.IsControl) >= 0 {
		return fmt.Errorf("key %q contains control characters", i.Key)
	}

	return nil
}

// ResolveContentType returns the item's content type. When unset it is
// derived from the extension of path, then from its content.
func (i Item) ResolveContentType(path string) string {
	if i.ContentType != "" {
		return i.ContentType
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}

	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}

	return DefaultContentType
}
