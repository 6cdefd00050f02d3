package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/database"
	auditrepo "github.com/mrlokans/booksharing/internal/database/audit"
	"github.com/mrlokans/booksharing/internal/database/authors"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/database/tags"
	"github.com/mrlokans/booksharing/internal/database/videos"
	http_controllers "github.com/mrlokans/booksharing/internal/http"
	"github.com/mrlokans/booksharing/internal/services"
	"github.com/mrlokans/booksharing/internal/storage/providers"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// In-flight requests are done; flush what they queued
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting booksharing v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store, err := providers.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s media storage: %v", cfg.Media.Backend, err)
	}
	log.Printf("Media storage backend: %s", cfg.Media.Backend)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), cfg.Audit.Enabled)
	pruneAuditEvents(auditService, cfg.Audit.RetentionDays)

	files := attachments.NewManager(store, auditService)
	authorRepo := authors.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)

	routerCfg := http_controllers.RouterConfig{
		Books:              services.NewBookService(books.NewRepository(db.DB), authorRepo, tagRepo, files, auditService),
		Authors:            services.NewAuthorService(authorRepo, files, auditService),
		Tags:               services.NewTagService(tagRepo, auditService),
		Videos:             services.NewVideoService(videos.NewRepository(db.DB), files),
		Media:              files,
		Audit:              auditService,
		Database:           db,
		Storage:            files,
		MediaBaseURL:       cfg.Media.BaseURL,
		MaxRequestBytes:    cfg.Uploads.MaxRequestBytes,
		MaxMultipartMemory: cfg.Uploads.MaxMemoryBytes,
		CORSOrigins:        cfg.CORS.AllowedOrigins,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}

// pruneAuditEvents drops audit events older than the retention window.
func pruneAuditEvents(auditService *audit.Service, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	deleted, err := auditService.DeleteOldEvents(time.Duration(retentionDays) * 24 * time.Hour)
	if err != nil {
		log.Printf("WARNING: Failed to prune audit events: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Pruned %d audit events older than %d days", deleted, retentionDays)
	}
}
