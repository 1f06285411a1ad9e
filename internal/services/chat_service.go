// Package services – ChatService
//
// This file owns the sales-copilot conversation log. Appends are
// fire-and-forget from the caller's point of view: a failed remote append
// lands in the fallback store instead, so the message is retained and shows
// up once reads degrade to the fallback log as well. While remote reads
// still succeed, a fallback-landed message stays out of the readback until
// the gate closes. Existing messages are never mutated or deleted.
//
// Ordering: messages carry a client-generated Unix-millisecond timestamp
// and reads sort by it ascending (ID breaks exact ties). This is correct as
// long as timestamps are monotonic within one conversation; concurrent
// writers on different clocks may interleave, which the product accepts.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// ChatService persists and reads conversation logs.
type ChatService struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *Remote
}

// NewConversationID derives a conversation identifier for a lead, matching
// the dashboard's "chat_<leadID>_<epochMillis>" convention.
func NewConversationID(leadID string) string {
	return fmt.Sprintf("chat_%s_%d", leadID, time.Now().UnixMilli())
}

// Append adds a message to the conversation log. A zero timestamp is
// stamped with the current clock. Validation errors (empty text, unknown
// sender) are the only errors callers observe; persistence failures are
// absorbed by writing to the fallback store instead, so the message is
// never lost even though fallback reads are what surface it.
func (s *ChatService) Append(ctx context.Context, conversationID, sender, text string, ts int64) (*domain.ChatMessage, error) {
	return s.AppendWithID(ctx, "", conversationID, sender, text, ts)
}

// AppendWithID is Append with a caller-chosen message ID; an empty id gets a
// generated UUID. Idempotent retries reuse the same id so the upstream
// replay check can find the earlier row instead of appending a duplicate.
func (s *ChatService) AppendWithID(ctx context.Context, id, conversationID, sender, text string, ts int64) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Append",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	switch sender {
	case domain.SenderUser, domain.SenderCustomer, domain.SenderAI:
	default:
		return nil, ErrInvalidSender
	}
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	if id == "" {
		id = uuid.NewString()
	}

	m := &domain.ChatMessage{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      ts,
	}

	if s.Remote.Available() {
		err := repo.AppendMessage(ctx, s.DB, m)
		if err == nil {
			return m, nil
		}
		log.Warn().Err(err).Str("conversation_id", conversationID).
			Msg("remote append failed, message kept in fallback store")
	}
	s.Store.AppendMessage(*m)
	return m, nil
}

// Conversation returns the conversation's messages ordered by timestamp
// ascending. Remote failures degrade to the fallback log.
func (s *ChatService) Conversation(ctx context.Context, conversationID string) []domain.ChatMessage {
	msgs, _ := readThrough(s.Remote, "chat.conversation",
		func() ([]domain.ChatMessage, error) {
			return repo.ListConversation(ctx, s.DB, conversationID)
		},
		func() ([]domain.ChatMessage, bool) {
			return s.Store.Conversation(conversationID), true
		},
	)
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs
}
