package config

// Default locations for local state
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./booksharing.db"

	// DefaultMediaRoot is the default directory for locally stored attachments
	DefaultMediaRoot = "./media"
)
