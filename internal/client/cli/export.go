package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mitteie/internal/client/export"
)

// newS3Sink is a test seam for export.NewS3Sink.
var newS3Sink = func(ctx context.Context, c export.S3Config) (snapshotPutter, error) {
	return export.NewS3Sink(ctx, c)
}

type snapshotPutter interface {
	Put(ctx context.Context, snap *export.Snapshot, e export.Encoding) (string, error)
}

// s3Target selects the configured bucket instead of a local file.
const s3Target = "s3"

// Export writes a snapshot of the inventory. With no argument the file is
// named after the current time; "s3" uploads it to the configured bucket.
func (a *App) Export(ctx context.Context, args []string) error {
	if _, err := a.ensureResolved(ctx); err != nil {
		return err
	}
	snap, err := a.loader.Load(ctx)
	if err != nil {
		return err
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	if target == s3Target {
		sink, err := newS3Sink(ctx, export.S3Config{
			Bucket:    a.config.ExportBucket,
			Region:    a.config.ExportRegion,
			Endpoint:  a.config.ExportEndpoint,
			AccessKey: a.config.ExportAccessKey,
			SecretKey: a.config.ExportSecretKey,
		})
		if err != nil {
			return err
		}
		key, err := sink.Put(ctx, snap, export.Encoding{Format: export.FormatJSON, Compress: true})
		if err != nil {
			return err
		}
		a.notifier.Success(fmt.Sprintf("Exported %d items to s3://%s/%s", snap.ItemCount, a.config.ExportBucket, key))
		return nil
	}

	if target == "" {
		target = "mitteie-" + snap.GeneratedAt.In(time.Local).Format("20060102-150405") + ".json"
	}
	if err := export.WriteFile(target, snap); err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("Exported %d items to %s", snap.ItemCount, target))
	return nil
}
