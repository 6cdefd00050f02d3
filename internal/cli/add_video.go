package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/booksharing/internal/attachments"
	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/database/videos"
	"github.com/mrlokans/booksharing/internal/services"
)

// AddVideoCommand registers a promotional video, copying its file into media
// storage.
type AddVideoCommand struct {
	cfg *config.Config

	FilePath     string
	Title        string
	Description  string
	Inactive     bool
	DatabasePath string
}

func NewAddVideoCommand(cfg *config.Config) *AddVideoCommand {
	return &AddVideoCommand{cfg: cfg}
}

func (cmd *AddVideoCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add-video", flag.ExitOnError)

	fs.StringVar(&cmd.Title, "title", "", "Video title (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the video file")
	fs.StringVar(&cmd.Description, "description", "", "Video description")
	fs.BoolVar(&cmd.Inactive, "inactive", false, "Register the video without exposing it")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-video [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register a promotional video. Media storage is taken from the environment.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s add-video -title \"Spring sale\" -file ./promo.mp4\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  MEDIA_BACKEND=s3 S3_BUCKET=media %s add-video -title Teaser -file ./teaser.mp4 -inactive\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Title == "" {
		fs.Usage()
		return fmt.Errorf("title is required")
	}

	return nil
}

func (cmd *AddVideoCommand) Run(ctx context.Context) error {
	env, err := openEnvironment(ctx, cmd.cfg, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer env.Close()

	in := services.VideoInput{
		Title:       cmd.Title,
		Description: cmd.Description,
		Active:      !cmd.Inactive,
	}

	if cmd.FilePath != "" {
		f, err := os.Open(cmd.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open video file: %w", err)
		}
		defer f.Close()
		in.Filename = filepath.Base(cmd.FilePath)
		in.Content = f
	}

	files := attachments.NewManager(env.store, env.audit)
	service := services.NewVideoService(videos.NewRepository(env.db.DB), files)

	video, err := service.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Printf("Registered video %d %q\n", video.ID, video.Title)
	if video.VideoFile != "" {
		fmt.Printf("  File: %s\n", video.VideoFile)
	}
	if !video.IsActive {
		fmt.Println("  Inactive: not listed by the API")
	}
	return nil
}
