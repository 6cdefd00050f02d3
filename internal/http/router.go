package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Resource groups are only registered when their service is configured.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	if cfg.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = cfg.MaxMultipartMemory
	}
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if cfg.MaxRequestBytes > 0 {
		router.Use(limitBody(cfg.MaxRequestBytes))
	}

	health := NewHealthController(cfg.Database, cfg.Storage, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")

	if cfg.Authors != nil {
		authors := NewAuthorsController(cfg.Authors)
		api.GET("/authors", authors.ListAuthors)
		api.POST("/authors", authors.CreateAuthor)
		api.GET("/authors/:id", authors.GetAuthor)
		api.PUT("/authors/:id", authors.UpdateAuthor)
		api.PATCH("/authors/:id", authors.PartialUpdateAuthor)
		api.DELETE("/authors/:id", authors.DeleteAuthor)
	}

	if cfg.Tags != nil {
		tags := NewTagsController(cfg.Tags)
		api.GET("/tags", tags.ListTags)
		api.POST("/tags", tags.CreateTag)
		api.GET("/tags/:id", tags.GetTag)
		api.PUT("/tags/:id", tags.UpdateTag)
		api.PATCH("/tags/:id", tags.PartialUpdateTag)
		api.DELETE("/tags/:id", tags.DeleteTag)
	}

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books, cfg.MediaBaseURL)
		api.GET("/books", books.ListBooks)
		api.POST("/books", books.CreateBook)
		api.GET("/books/by_tag", books.BooksByTag)
		api.GET("/books/:id", books.GetBook)
		api.PUT("/books/:id", books.UpdateBook)
		api.PATCH("/books/:id", books.PartialUpdateBook)
		api.DELETE("/books/:id", books.DeleteBook)
		api.GET("/books/:id/download_pdf", books.DownloadPDF)
		api.DELETE("/books/:id/delete_pdf", books.DeletePDF)
	}

	if cfg.Videos != nil {
		videos := NewVideosController(cfg.Videos, cfg.MediaBaseURL)
		api.GET("/promotional-videos", videos.ListVideos)
		api.GET("/promotional-videos/:id", videos.GetVideo)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	if cfg.Media != nil {
		media := NewMediaController(cfg.Media)
		router.GET("/media/*key", media.Serve)
	}

	return router
}
