// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ChatMessage model. The message log is append-only: nothing here updates
// or deletes existing rows.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// AppendMessage inserts a new chat message row. The message keeps its
// client-generated timestamp; a UUID is assigned when the ID is empty.
func AppendMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(m).Error
}

// ListConversation returns messages ordered deterministically
// (Timestamp ASC, ID ASC).
func ListConversation(ctx context.Context, db *gorm.DB, conversationID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, id ASC").
		Find(&out).Error
	return out, err
}

// GetMessage returns one message by id, or ErrNotFound.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ConversationStats returns aggregate metadata for a conversation: the total
// number of messages and the greatest timestamp among them. Used for weak
// ETag generation in the HTTP layer. When the conversation is empty, the
// returned count and maxTS are both zero.
func ConversationStats(ctx context.Context, db *gorm.DB, conversationID string) (count int64, maxTS int64, err error) {
	q := db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("conversation_id = ?", conversationID)

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		Timestamp int64
	}
	if err = q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.Timestamp, nil
}
