// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore, AuthorStore, TagStore, VideoStore: repositories consumed by
//     the catalog services (internal/services/interfaces.go)
//   - BookKeys, VideoKeys: attachment keys still referenced by records
//     (internal/cli/sweep_media.go)
//
// ## Attachment Interfaces
//
//   - storage.Client: a blob backend, implemented by the local and s3
//     providers (internal/storage/client.go)
//   - AttachmentManager: stores uploads and removes replaced files
//     (internal/services/interfaces.go)
//   - MediaStore: opens files for the /media/ route (internal/http/media.go)
//   - FailureRecorder: receives cleanup failures (internal/attachments/manager.go)
//
// ## Audit Interfaces
//
//   - DeleteAuditor: records deletions (internal/services/interfaces.go)
//
// # Adding a New Storage Backend
//
// To keep attachments somewhere else (e.g., Google Cloud Storage):
//
//  1. Implement storage.Client in internal/storage/providers/gcs/
//
//     type Client struct {
//         bucket *gcs.BucketHandle
//     }
//
//     func (c *Client) Upload(ctx context.Context, key string, content io.Reader) error
//     func (c *Client) Delete(ctx context.Context, key string) error // storage.ErrNotExist when missing
//
//     var _ storage.Client = (*Client)(nil)
//
//  2. Add a MediaBackend constant in internal/config and a case in
//     providers.Open
//
// # Adding a New Attachment Kind
//
//  1. Add a Kind constant in internal/attachments and append it to Kinds so
//     sweep-media scans its prefix
//
//  2. Expose the referenced keys from the owning repository and pass them to
//     cli.Sweep
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
