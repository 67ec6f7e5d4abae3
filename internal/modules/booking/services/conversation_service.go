package services

import (
	"context"
	"errors"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationService struct {
	conversationRepo repositories.ConversationRepo
}

func NewConversationService(conversationRepo repositories.ConversationRepo) *ConversationService {
	return &ConversationService{conversationRepo: conversationRepo}
}

// MarkRead clears the unread counter once an operator opened the thread.
// A non-empty tenantScope hides conversations of other tenants.
func (s *ConversationService) MarkRead(ctx context.Context, tenantScope, id string) error {
	conversationID, err := uuid.Parse(id)
	if err != nil {
		return ErrConversationNotFound
	}
	tenantID := uuid.Nil
	if tenantScope != "" {
		if tenantID, err = uuid.Parse(tenantScope); err != nil {
			return ErrConversationNotFound
		}
	}
	err = s.conversationRepo.MarkRead(ctx, tenantID, conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrConversationNotFound
	}
	return err
}
