package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booksharing/internal/audit"
	"github.com/mrlokans/booksharing/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events, newest first
// GET /api/audit?type=delete&page=1&limit=25
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePage(c, 25, 100)
	offset := (page - 1) * limit

	events, total, err := ac.auditService.GetEvents(entities.AuditEventType(c.Query("type")), limit, offset)
	if err != nil {
		respondInternalError(c, err, "get audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
