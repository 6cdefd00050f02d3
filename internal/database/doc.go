// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, error classification
//	├── query.go         # Shared list filters (search, ordering)
//	├── authors/         # Authors and cascading deletes
//	├── books/           # Books, tag links and PDF keys
//	├── tags/            # Tag management
//	├── videos/          # Promotional videos
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./booksharing.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	authorsRepo := authors.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetBookByID(123)
//	author, pdfKeys, err := authorsRepo.DeleteAuthor(7)
//
// # Attachments
//
// Repositories never touch storage. Writes that drop a file reference return
// the dropped keys so the caller can remove the files after commit.
//
// # Errors
//
// The connection is opened with TranslateError, so unique violations surface
// as gorm.ErrDuplicatedKey. Use IsUniqueViolation and IsNotFound rather than
// matching driver errors directly.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add the entity to the AutoMigrate list in database.go
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
