package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepo interface {
	RecordInbound(ctx context.Context, tenantID, contactID uuid.UUID, preview string, at time.Time) (*models.Conversation, error)
	FindActive(ctx context.Context, tenantID, contactID uuid.UUID) (*models.Conversation, error)
	Touch(ctx context.Context, id uuid.UUID, preview string, at time.Time) error
	MarkRead(ctx context.Context, tenantID, id uuid.UUID) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

var activeConversation = clause.Where{Exprs: []clause.Expression{
	clause.Expr{SQL: "status = 'active'"},
}}

// RecordInbound opens the active conversation with unread_count = 1 or, when
// one exists, increments its counter and refreshes the preview. It is a single
// INSERT .. ON CONFLICT against the partial unique index so two concurrent
// messages can never produce two active conversations.
func (r *conversationRepo) RecordInbound(ctx context.Context, tenantID, contactID uuid.UUID, preview string, at time.Time) (*models.Conversation, error) {
	db := r.db.WithContext(ctx)

	conversation := models.Conversation{
		TenantID:           tenantID,
		ContactID:          contactID,
		Status:             models.ConversationStatusActive,
		LastMessagePreview: preview,
		LastMessageAt:      at,
		UnreadCount:        1,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "tenant_id"}, {Name: "contact_id"}},
		TargetWhere: activeConversation,
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "unread_count"}, Value: gorm.Expr("conversations.unread_count + 1")},
			{Column: clause.Column{Name: "last_message_preview"}, Value: preview},
			{Column: clause.Column{Name: "last_message_at"}, Value: at},
			{Column: clause.Column{Name: "updated_at"}, Value: at},
		},
	}).Create(&conversation).Error
	if err != nil {
		return nil, err
	}

	return r.FindActive(ctx, tenantID, contactID)
}

// FindActive returns the active conversation or nil when the contact has none.
func (r *conversationRepo) FindActive(ctx context.Context, tenantID, contactID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ? AND status = ?", tenantID, contactID, models.ConversationStatusActive).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Touch refreshes preview and timestamp without changing the unread counter.
func (r *conversationRepo) Touch(ctx context.Context, id uuid.UUID, preview string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_preview": preview,
			"last_message_at":      at,
		}).Error
}

// MarkRead resets the unread counter. A nil tenantID matches any tenant.
func (r *conversationRepo) MarkRead(ctx context.Context, tenantID, id uuid.UUID) error {
	query := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	result := query.Update("unread_count", 0)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
