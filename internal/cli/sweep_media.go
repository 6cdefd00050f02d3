package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/database/books"
	"github.com/mrlokans/booksharing/internal/database/videos"
	"github.com/mrlokans/booksharing/internal/storage"
)

// SweepMediaCommand finds stored attachment files no record references and
// optionally deletes them.
type SweepMediaCommand struct {
	cfg *config.Config

	Delete       bool
	DatabasePath string
}

// SweepResult summarises a sweep.
type SweepResult struct {
	Orphans []storage.FileInfo
	Bytes   int64
	Deleted int
}

func NewSweepMediaCommand(cfg *config.Config) *SweepMediaCommand {
	return &SweepMediaCommand{cfg: cfg}
}

func (cmd *SweepMediaCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep-media", flag.ExitOnError)

	fs.BoolVar(&cmd.Delete, "delete", false, "Delete orphaned files (default is a dry run)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep-media [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List attachment files that no book or video references.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sweep-media\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sweep-media -delete\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SweepMediaCommand) Run(ctx context.Context) error {
	env, err := openEnvironment(ctx, cmd.cfg, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer env.Close()

	files := attachments.NewManager(env.store, env.audit)
	result, err := Sweep(ctx, files, books.NewRepository(env.db.DB), videos.NewRepository(env.db.DB), cmd.Delete)
	if err != nil {
		return err
	}

	for _, f := range result.Orphans {
		fmt.Printf("  %s (%d bytes)\n", f.Key, f.Size)
	}
	if cmd.Delete {
		fmt.Printf("Deleted %d orphaned files (%d bytes)\n", result.Deleted, result.Bytes)
	} else {
		fmt.Printf("Found %d orphaned files (%d bytes); run with -delete to remove them\n", len(result.Orphans), result.Bytes)
	}
	return nil
}

// OrphanFinder lists stored files outside a set of referenced keys.
type OrphanFinder interface {
	Orphans(ctx context.Context, referenced []string) ([]storage.FileInfo, error)
	Remove(ctx context.Context, key string)
}

// BookKeys lists the PDF keys books reference.
type BookKeys interface {
	AttachedPDFKeys() ([]string, error)
}

// VideoKeys lists the file keys videos reference.
type VideoKeys interface {
	AttachedVideoKeys() ([]string, error)
}

// Sweep collects orphaned files and removes them when remove is set.
func Sweep(ctx context.Context, files OrphanFinder, bookKeys BookKeys, videoKeys VideoKeys, remove bool) (*SweepResult, error) {
	referenced, err := bookKeys.AttachedPDFKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load book attachments: %w", err)
	}
	videoFiles, err := videoKeys.AttachedVideoKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load video attachments: %w", err)
	}
	referenced = append(referenced, videoFiles...)

	orphans, err := files.Orphans(ctx, referenced)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	result := &SweepResult{Orphans: orphans}
	for _, f := range orphans {
		result.Bytes += f.Size
		if remove {
			files.Remove(ctx, f.Key)
			result.Deleted++
		}
	}
	return result, nil
}
