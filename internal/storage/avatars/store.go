// Package avatars keeps uploaded avatar images in a gocloud.dev blob bucket.
// Any bucket URL the linked drivers understand works: mem:// for tests and
// local runs, file:///path?create_dir=true for a single host.
package avatars

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/mcoot/staffapi/internal/model"
)

// Store reads and writes avatar objects
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket at url
func Open(ctx context.Context, url string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open avatar bucket: %w", err)
	}
	return NewWithBucket(bucket), nil
}

// NewWithBucket wraps an already opened bucket
func NewWithBucket(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Put writes an avatar object
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("write avatar %s: %w", key, err)
	}
	return nil
}

// Get opens an avatar for reading along with its content type.
// The caller must close the reader.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", model.ErrAvatarNotFound
		}
		return nil, "", fmt.Errorf("read avatar %s: %w", key, err)
	}
	return r, r.ContentType(), nil
}

// Delete removes an avatar; missing objects are not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("delete avatar %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket
func (s *Store) Close() error {
	return s.bucket.Close()
}
