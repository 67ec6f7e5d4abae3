package repositories

import (
	"context"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepo interface {
	Create(ctx context.Context, message *models.Message) error
	ExistsByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (bool, error)
	Recent(ctx context.Context, conversationID uuid.UUID, limit int, excludeID uuid.UUID) ([]models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) ExistsByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		Count(&count).Error
	return count > 0, err
}

// Recent returns up to limit messages of the conversation in chronological
// order (oldest first), skipping excludeID.
func (r *messageRepo) Recent(ctx context.Context, conversationID uuid.UUID, limit int, excludeID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND id <> ?", conversationID, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
