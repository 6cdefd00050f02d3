// Package providers selects the attachment storage backend from configuration.
package providers

import (
	"context"
	"fmt"

	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/storage"
	"github.com/mrlokans/booksharing/internal/storage/providers/local"
	"github.com/mrlokans/booksharing/internal/storage/providers/s3"
)

// Open returns the storage client for the configured media backend.
func Open(ctx context.Context, cfg *config.Config) (storage.Client, error) {
	switch cfg.Media.Backend {
	case config.MediaBackendLocal, "":
		client, err := local.NewClient(cfg.Media.Root)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.MediaBackendS3:
		client, err := s3.NewClient(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}
