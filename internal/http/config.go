package http

import (
	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Catalog services
	Books   *services.BookService
	Authors *services.AuthorService
	Tags    *services.TagService
	Videos  *services.VideoService

	// Attachment files served under /media/
	Media MediaStore

	// Audit trail (optional)
	Audit *audit.Service

	// Health checks
	Database *database.Database
	Storage  Pinger

	// MediaBaseURL prefixes pdf_url and video_url. When empty the base is
	// taken from the request.
	MediaBaseURL string

	// MaxRequestBytes caps request bodies; zero disables the cap.
	MaxRequestBytes int64

	// MaxMultipartMemory bounds in-memory multipart parts; zero keeps gin's default.
	MaxMultipartMemory int64

	// Allowed CORS origins; CORS is disabled when empty.
	CORSOrigins []string

	// Application info
	Version string
}
