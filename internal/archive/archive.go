package archive

import (
	"context"
	"io"
)

// ObjectStore is the object-storage surface used for monthly-report
// snapshots. A nil store disables archival.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
}
