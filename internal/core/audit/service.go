package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recorder is what the booking services need from the audit trail.
type Recorder interface {
	Record(ctx context.Context, entry *AuditLog)
	RecordChange(ctx context.Context, tenantID uuid.UUID, actor, action, entity, entityID string, oldValue, newValue interface{})
}

// Service provides audit logging functionality
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a new audit log entry
func (s *Service) Log(ctx context.Context, entry *AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// Record is Log for callers that must not fail because of the audit trail.
func (s *Service) Record(ctx context.Context, entry *AuditLog) {
	if err := s.Log(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("tenant_id", entry.TenantID.String()).
			Str("action", entry.Action).
			Msg("❌ Audit write failed")
	}
}

// Entry builds an audit row, serializing metadata to JSON.
func Entry(tenantID uuid.UUID, actor, action, entity, entityID string, metadata interface{}) *AuditLog {
	meta, err := toJSON(metadata)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("failed to serialize audit metadata")
	}
	return &AuditLog{
		TenantID: tenantID,
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	}
}

// LogChange creates an audit log tracking a change of one entity
func (s *Service) LogChange(ctx context.Context, tenantID uuid.UUID, actor, action, entity, entityID string, oldValue, newValue interface{}) error {
	oldJSON, err := toJSON(oldValue)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize old value")
	}

	newJSON, err := toJSON(newValue)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize new value")
	}

	return s.Log(ctx, &AuditLog{
		TenantID: tenantID,
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		OldValue: oldJSON,
		NewValue: newJSON,
	})
}

// RecordChange is LogChange for callers that must not fail because of the
// audit trail.
func (s *Service) RecordChange(ctx context.Context, tenantID uuid.UUID, actor, action, entity, entityID string, oldValue, newValue interface{}) {
	if err := s.LogChange(ctx, tenantID, actor, action, entity, entityID, oldValue, newValue); err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID.String()).
			Str("action", action).
			Msg("❌ Audit write failed")
	}
}

// GetLogs retrieves audit logs with filtering
func (s *Service) GetLogs(ctx context.Context, filter AuditFilter) (*AuditLogResponse, error) {
	query := s.db.WithContext(ctx).Model(&AuditLog{})

	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	var logs []AuditLog
	if err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	totalPages := int(totalCount) / filter.PageSize
	if int(totalCount)%filter.PageSize > 0 {
		totalPages++
	}

	return &AuditLogResponse{
		Logs:       logs,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// DeleteOldLogs deletes audit logs older than daysToKeep days, returning the
// number of rows removed.
func (s *Service) DeleteOldLogs(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep < 1 {
		return 0, fmt.Errorf("daysToKeep must be at least 1")
	}

	cutoffDate := time.Now().AddDate(0, 0, -daysToKeep)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoffDate).Delete(&AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}

	log.Info().Int64("deleted", result.RowsAffected).Int("days_to_keep", daysToKeep).Msg("🧹 Deleted old audit logs")
	return result.RowsAffected, nil
}

func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
