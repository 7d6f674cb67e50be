package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cleansync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archiver stores raw feed bodies in object storage so that a sync outcome
// can be audited against the exact feed text it saw. Archiving is
// best-effort: callers log failures and carry on with the sync.
type Archiver struct {
	client storage.Client
	bucket string
}

// NewArchiver creates a feed archiver writing to the given bucket.
func NewArchiver(client storage.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Archive stores one fetched feed body under the configuration id and the
// fetch timestamp.
func (a *Archiver) Archive(ctx context.Context, configID, body string) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking archive bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating archive bucket: %w", err)
		}
	}

	objectName := fmt.Sprintf("feeds/%s/%s.ics", configID, time.Now().UTC().Format("20060102T150405Z"))
	reader := strings.NewReader(body)

	_, err = a.client.PutObject(ctx, a.bucket, objectName, reader, int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/calendar",
	})
	if err != nil {
		return fmt.Errorf("archiving feed snapshot: %w", err)
	}
	return nil
}
