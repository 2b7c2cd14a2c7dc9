package deploy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultItems(t *testing.T) {
	items := DefaultItems()
	require.Len(t, items, 4)

	for _, item := range items {
		assert.NoError(t, item.Validate(), item.Key)
		assert.NotEmpty(t, item.ContentType, item.Key)
	}

	assert.Equal(t, Item{
		SourcePath:  "../setup-database.sql",
		Key:         "database/setup-database.sql",
		ContentType: "text/plain",
	}, items[3])

	// Callers get their own copy.
	items[0].Key = "mutated"
	assert.Equal(t, "www/index.html", DefaultItems()[0].Key)
}

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr string
	}{
		{
			name: "valid nested key",
			item: Item{SourcePath: "a.html", Key: "www/a.html"},
		},
		{
			name: "dots inside names allowed",
			item: Item{SourcePath: "a.html", Key: "www/v1..2/a.html"},
		},
		{
			name:    "empty source",
			item:    Item{Key: "www/a.html"},
			wantErr: "source path is required",
		},
		{
			name:    "empty key",
			item:    Item{SourcePath: "a.html"},
			wantErr: "key is required",
		},
		{
			name:    "leading slash",
			item:    Item{SourcePath: "a.html", Key: "/www/a.html"},
			wantErr: "must not start with /",
		},
		{
			name:    "parent segment",
			item:    Item{SourcePath: "a.html", Key: "www/../a.html"},
			wantErr: ".. segments",
		},
		{
			name:    "control character",
			item:    Item{SourcePath: "a.html", Key: "www/a\x00.html"},
			wantErr: "control characters",
		},
		{
			name:    "too long",
			item:    Item{SourcePath: "a.html", Key: strings.Repeat("k", maxKeyLength+1)},
			wantErr: "exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveContentType(t *testing.T) {
	dir := t.TempDir()

	noExt := filepath.Join(dir, "README")
	require.NoError(t, os.WriteFile(noExt, []byte("plain words\n"), 0o644))

	pngLike := filepath.Join(dir, "logo")
	require.NoError(t, os.WriteFile(pngLike, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))

	tests := []struct {
		name       string
		item       Item
		path       string
		wantPrefix string
	}{
		{
			name:       "explicit type wins",
			item:       Item{ContentType: "application/x-httpd-php"},
			path:       filepath.Join(dir, "api.php"),
			wantPrefix: "application/x-httpd-php",
		},
		{
			name:       "extension",
			item:       Item{},
			path:       filepath.Join(dir, "index.html"),
			wantPrefix: "text/html",
		},
		{
			name:       "sniffed text",
			item:       Item{},
			path:       noExt,
			wantPrefix: "text/plain",
		},
		{
			name:       "sniffed png",
			item:       Item{},
			path:       pngLike,
			wantPrefix: "image/png",
		},
		{
			name:       "unreadable falls back",
			item:       Item{},
			path:       filepath.Join(dir, "missing"),
			wantPrefix: DefaultContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.ResolveContentType(tt.path)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), "got %q", got)
		})
	}
}
