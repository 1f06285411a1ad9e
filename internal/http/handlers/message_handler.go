// Conversation HTTP handlers.
//
// This file exposes REST endpoints for sales-copilot conversations:
//   - GET  /conversations/{id}/messages  (ordered log, weak ETag support)
//   - POST /conversations/{id}/messages  (append; customer messages get AI
//     reply suggestions in the response)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (line endings, blank-line collapsing)
//   - delegate to the ChatService (append never fails on store outage)
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header, the key doubles as the
// message id. A retry with the same key finds the earlier row, returns it
// with `Idempotency-Replayed: true`, and appends nothing.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/http/middleware"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/services"
)

//
// DTOs
//

// PostConversationMessageRequest is the JSON payload for appending a message.
type PostConversationMessageRequest struct {
	// Sender is one of: user, customer, ai.
	Sender string `json:"sender" binding:"required"`
	// Text is the message body. It must be non-empty after trimming.
	Text string `json:"text" binding:"required,min=1"`
	// Timestamp is the client-generated Unix-millisecond timestamp. Zero lets
	// the server stamp the current time.
	Timestamp int64 `json:"timestamp"`
}

// PostConversationMessageResponse is the envelope for an appended message.
// Suggestions is populated only for customer messages, with up to three
// AI-drafted replies the partner can send next.
type PostConversationMessageResponse struct {
	Message     *domain.ChatMessage `json:"message"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// ListConversationResponse contains the full ordered message log.
type ListConversationResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeText normalizes message text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

//
// Handlers
//

// PostMessage appends a message to the conversation log. When the sender is
// the customer, the response carries AI reply suggestions so the next screen
// renders instantly. Store outages never fail the request: the append lands
// in the fallback log and the response is identical.
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	convID := c.Param("id")

	var req PostConversationMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sender and text required")
		return
	}

	text := sanitizeText(req.Text)
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	// Idempotency (replay path) – the validated key is the message id. Check
	// the hosted store first, then the fallback log, so retries replay during
	// an outage too instead of appending a duplicate.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if h.Chat.DB != nil && h.Chat.Remote.Available() {
			if prev, err := repo.GetMessage(ctx, h.Chat.DB, idemKey); err == nil && prev != nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, PostConversationMessageResponse{Message: prev})
				return
			}
		}
		if prev, found := h.Chat.Store.Message(idemKey); found {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, PostConversationMessageResponse{Message: &prev})
			return
		}
	}

	m, err := h.Chat.AppendWithID(ctx, idemKey, convID, req.Sender, text, req.Timestamp)
	if err != nil {
		switch {
		case err == services.ErrEmptyMessage:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		case err == services.ErrInvalidSender:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sender must be one of: user, customer, ai")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		}
		return
	}

	resp := PostConversationMessageResponse{Message: m}
	if req.Sender == domain.SenderCustomer {
		resp.Suggestions = h.Assist.ReplySuggestions(ctx, text, c.Query("product"), 3)
	}
	ok(c, http.StatusOK, resp)
}

// ListMessages returns the conversation log ordered by timestamp ascending.
// Supports weak ETags derived from (count, max timestamp); If-None-Match
// hits answer 304 without touching the page body.
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	convID := c.Param("id")

	// ETag pre-check (best effort; only meaningful against the hosted store).
	if h.Chat.DB != nil && h.Chat.Remote.Available() {
		count, maxTS, err := repo.ConversationStats(ctx, h.Chat.DB, convID)
		if err == nil {
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, convID, count, maxTS)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	msgs := h.Chat.Conversation(ctx, convID)
	ok(c, http.StatusOK, ListConversationResponse{Messages: msgs})
}
