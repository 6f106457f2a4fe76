package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("receipt storage not configured")

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// ObjectWriter opens a writer for bucket/object. Swappable in tests.
type ObjectWriter func(ctx context.Context, bucket, object, contentType string) io.WriteCloser

func gcsWriter(client *storage.Client) ObjectWriter {
	return func(ctx context.Context, bucket, object, contentType string) io.WriteCloser {
		wc := client.Bucket(bucket).Object(object).NewWriter(ctx)
		wc.ContentType = contentType
		wc.ChunkSize = 0
		return wc
	}
}

// ReceiptStore uploads transaction receipts under receipts/<user>/<uuid><ext>.
type ReceiptStore struct {
	bucket string
	open   ObjectWriter
}

func NewReceiptStore(client *storage.Client, bucket string) *ReceiptStore {
	if client == nil {
		return &ReceiptStore{bucket: bucket}
	}
	return &ReceiptStore{bucket: bucket, open: gcsWriter(client)}
}

// NewReceiptStoreWithWriter builds a store over an arbitrary object writer.
func NewReceiptStoreWithWriter(bucket string, open ObjectWriter) *ReceiptStore {
	return &ReceiptStore{bucket: bucket, open: open}
}

func (s *ReceiptStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	if s.open == nil || s.bucket == "" {
		return "", ErrNotConfigured
	}
	object := ObjectPath(userID, filename)
	wc := s.open(ctx, s.bucket, object, contentType)
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(s.bucket, object), nil
}

func ObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("receipts", userID, uuid.NewString()+ext)
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
