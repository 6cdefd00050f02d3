package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/database"
	auditrepo "github.com/mrlokans/booksharing/internal/database/audit"
	"github.com/mrlokans/booksharing/internal/storage"
	"github.com/mrlokans/booksharing/internal/storage/providers"
)

// environment holds the resources a command works against.
type environment struct {
	db    *database.Database
	store storage.Client
	audit *audit.Service
}

func openEnvironment(ctx context.Context, cfg *config.Config, dbPath string) (*environment, error) {
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := providers.Open(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open media storage: %w", err)
	}

	return &environment{
		db:    db,
		store: store,
		audit: audit.NewService(auditrepo.NewRepository(db.DB), cfg.Audit.Enabled),
	}, nil
}

func (e *environment) Close() {
	e.audit.Wait()
	if err := e.db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
