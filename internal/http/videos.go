package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/services"
)

type VideosController struct {
	service      *services.VideoService
	mediaBaseURL string
}

func NewVideosController(service *services.VideoService, mediaBaseURL string) *VideosController {
	return &VideosController{service: service, mediaBaseURL: mediaBaseURL}
}

// ListVideos returns active promotional videos
// GET /api/promotional-videos
func (vc *VideosController) ListVideos(c *gin.Context) {
	videos, err := vc.service.ListActive()
	if err != nil {
		respondError(c, err, "list videos")
		return
	}

	base := mediaBaseURL(c, vc.mediaBaseURL)
	views := make([]videoView, len(videos))
	for i, v := range videos {
		views[i] = newVideoView(v, base)
	}
	c.JSON(http.StatusOK, views)
}

// GetVideo returns an active promotional video
// GET /api/promotional-videos/:id
func (vc *VideosController) GetVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	video, err := vc.service.GetActive(id)
	if err != nil {
		respondError(c, err, "get video")
		return
	}
	c.JSON(http.StatusOK, newVideoView(*video, mediaBaseURL(c, vc.mediaBaseURL)))
}
