package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booksharing/internal/config"
	"github.com/mrlokans/booksharing/internal/database"
	"github.com/mrlokans/booksharing/internal/entities"
)

func TestAddVideoCommand_ParseFlags(t *testing.T) {
	cfg := &config.Config{Database: config.Database{Path: "./catalog.db"}}

	cmd := NewAddVideoCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"-title", "Spring sale", "-file", "promo.mp4", "-inactive"}))

	assert.Equal(t, "Spring sale", cmd.Title)
	assert.Equal(t, "promo.mp4", cmd.FilePath)
	assert.True(t, cmd.Inactive)
	assert.Equal(t, "./catalog.db", cmd.DatabasePath)
}

func TestAddVideoCommand_Run(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "spring promo.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

	cfg := &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "catalog.db")},
		Media:    config.Media{Backend: config.MediaBackendLocal, Root: filepath.Join(dir, "media")},
	}

	cmd := NewAddVideoCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"-title", "Spring sale", "-file", videoPath}))
	require.NoError(t, cmd.Run(context.Background()))

	db, err := database.NewDatabase(cfg.Database.Path)
	require.NoError(t, err)
	defer db.Close()

	var video entities.PromotionalVideo
	require.NoError(t, db.DB.First(&video).Error)
	assert.Equal(t, "Spring sale", video.Title)
	assert.True(t, video.IsActive)
	assert.Regexp(t, `^videos/[0-9a-f-]{36}-spring-promo\.mp4$`, video.VideoFile)

	_, err = os.Stat(filepath.Join(cfg.Media.Root, filepath.FromSlash(video.VideoFile)))
	assert.NoError(t, err)
}
