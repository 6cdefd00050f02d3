package audit

import (
	"log"
	"sync"
	"time"

	"github.com/mrlokans/booksharing/internal/database/audit"
	"github.com/mrlokans/booksharing/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	enabled bool
	pending sync.WaitGroup
}

// NewService creates a new audit service. A disabled service drops every
// event but still serves reads.
func NewService(repo *audit.Repository, enabled bool) *Service {
	return &Service{repo: repo, enabled: enabled}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if !s.enabled {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued by LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: truncate("Deleted "+entityType+": "+entityName, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAttachmentFailure records a storage operation on an attachment that
// failed and was not retried.
func (s *Service) LogAttachmentFailure(action, key string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventAttachment,
		Action:      action,
		Description: truncate("Attachment "+key, 500),
		EntityType:  "attachment",
		Status:      entities.AuditStatusFailed,
	}
	if err != nil {
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events, optionally filtered by type.
func (s *Service) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
