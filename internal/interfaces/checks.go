package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/cli"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/database/authors"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/database/tags"
	"github.com/mrlokans/booksharing/internal/database/videos"
	"github.com/mrlokans/booksharing/internal/http"
	"github.com/mrlokans/booksharing/internal/services"
	"github.com/mrlokans/booksharing/internal/storage"
	"github.com/mrlokans/booksharing/internal/storage/providers/local"
	"github.com/mrlokans/booksharing/internal/storage/providers/s3"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.BookStore = (*books.Repository)(nil)
var _ services.AuthorStore = (*authors.Repository)(nil)
var _ services.TagStore = (*tags.Repository)(nil)
var _ services.VideoStore = (*videos.Repository)(nil)

var _ cli.BookKeys = (*books.Repository)(nil)
var _ cli.VideoKeys = (*videos.Repository)(nil)

// =============================================================================
// Attachment Storage
// =============================================================================

var _ storage.Client = (*local.Client)(nil)
var _ storage.Client = (*s3.Client)(nil)

var _ services.AttachmentManager = (*attachments.Manager)(nil)
var _ cli.OrphanFinder = (*attachments.Manager)(nil)
var _ http.MediaStore = (*attachments.Manager)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ attachments.FailureRecorder = (*audit.Service)(nil)
var _ services.DeleteAuditor = (*audit.Service)(nil)

// =============================================================================
// Health Checks
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*attachments.Manager)(nil)
