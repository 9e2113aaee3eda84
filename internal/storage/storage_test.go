package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3(t *testing.T) {
	bucket, key, err := ParseS3("s3://books/scans/vol1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "books", bucket)
	assert.Equal(t, "scans/vol1.pdf", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := ParseS3(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsRemoteAndLocalPath(t *testing.T) {
	assert.True(t, IsRemote("s3://b/k"))
	assert.True(t, IsRemote("https://example.com/a.pdf"))
	assert.False(t, IsRemote("file:///tmp/a.pdf"))
	assert.False(t, IsRemote("out.pdf"))
	assert.Equal(t, "/tmp/a.pdf", LocalPath("file:///tmp/a.pdf#page=2"))
}

func TestFetchLocal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o644))

	got, cleanup, err := New(Options{}).Fetch(context.Background(), "file://"+p)
	require.NoError(t, err)
	cleanup()
	assert.Equal(t, p, got)
	assert.FileExists(t, p, "local inputs are never removed")

	_, _, err = New(Options{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/doc.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	}))
	defer srv.Close()

	c := New(Options{})
	p, cleanup, err := c.Fetch(context.Background(), srv.URL+"/doc.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
	cleanup()
	assert.NoFileExists(t, p)

	_, _, err = c.Fetch(context.Background(), srv.URL+"/missing.pdf")
	assert.Error(t, err)
}

func TestStoreLocalIsNoop(t *testing.T) {
	assert.NoError(t, New(Options{}).Store(context.Background(), "a.pdf", "b.pdf"))
	assert.Error(t, New(Options{}).Store(context.Background(), "a.pdf", "https://example.com/b.pdf"))
}
