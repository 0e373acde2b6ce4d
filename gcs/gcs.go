// Package gcs copies backup files to and from Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Bucket reads and writes the objects of a bucket.
type Bucket interface {
	NewWriter(ctx context.Context, object string) io.WriteCloser
	NewReader(ctx context.Context, object string) (io.ReadCloser, error)
}

// Client is a Cloud Storage client.
type Client struct {
	client *storage.Client
}

// NewClient creates a client authenticated with the service account key in
// credentialsFile, or with the default application credentials if empty.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Client{client: c}, nil
}

// Close closes the client.
func (c *Client) Close() error { return c.client.Close() }

// Bucket returns the bucket 'name'.
func (c *Client) Bucket(name string) Bucket { return handle{c.client.Bucket(name)} }

// handle adapts *storage.BucketHandle to Bucket.
type handle struct{ *storage.BucketHandle }

func (h handle) NewWriter(ctx context.Context, object string) io.WriteCloser {
	w := h.Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	return w
}

func (h handle) NewReader(ctx context.Context, object string) (io.ReadCloser, error) {
	return h.Object(object).NewReader(ctx)
}

// ParseURI splits "gs://bucket/path/to/object" into its bucket and object names.
func ParseURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("invalid GCS URI %q: want gs://bucket/object", uri)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q: missing bucket", uri)
	}
	return bucket, object, nil
}

// Upload copies r into 'object' of bucket b and returns the number of bytes written.
func Upload(ctx context.Context, b Bucket, object string, r io.Reader) (int64, error) {
	if object == "" {
		return 0, errors.New("missing object name")
	}
	w := b.NewWriter(ctx, object)
	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return n, fmt.Errorf("write GCS object: %w", err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("close GCS object writer: %w", err)
	}
	return n, nil
}

// Fetch returns the content of 'object' in bucket b.
func Fetch(ctx context.Context, b Bucket, object string) ([]byte, error) {
	r, err := b.NewReader(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}
