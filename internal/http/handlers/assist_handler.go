// AI assistance HTTP handlers.
//
//   - POST /assist/outreach   (first-contact message for a lead)
//   - POST /assist/reply      (reply suggestions for a customer message)
//   - POST /assist/training   (generated training content for a topic)
//
// Every endpoint degrades to a deterministic template when the generative
// call fails, so responses are never empty and never 5xx on model outages.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OutreachRequest identifies the lead context for a first-contact draft.
// CustomerName may be provided directly, or LeadID resolves it (plus product
// and location) from the lead record.
type OutreachRequest struct {
	LeadID       string `json:"lead_id"`
	CustomerName string `json:"customer_name"`
	Product      string `json:"product"`
	Location     string `json:"location"`
}

// OutreachResponse carries the drafted message.
type OutreachResponse struct {
	Message string `json:"message"`
}

// ReplyRequest asks for reply suggestions to a customer message.
type ReplyRequest struct {
	Message string `json:"message" binding:"required,min=1"`
	Product string `json:"product"`
	Context string `json:"context"`
	// Count caps the number of suggestions (1-3, default 3).
	Count int `json:"count"`
}

// ReplyResponse carries the drafted reply suggestions.
type ReplyResponse struct {
	Suggestions []string `json:"suggestions"`
}

// TrainingContentRequest asks for generated micro-training content.
type TrainingContentRequest struct {
	Topic string `json:"topic" binding:"required,min=1"`
	Level string `json:"level"`
}

// TrainingContentResponse carries the generated content.
type TrainingContentResponse struct {
	Content string `json:"content"`
}

// Outreach drafts a short first-contact message. When lead_id is given, the
// lead record fills in any of name/product/location the request left blank.
func (h *Handlers) Outreach(c *gin.Context) {
	ctx := c.Request.Context()

	var req OutreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if req.LeadID != "" {
		if l, err := h.Leads.Lead(ctx, req.LeadID); err == nil {
			if req.CustomerName == "" {
				req.CustomerName = l.Name
			}
			if req.Product == "" {
				req.Product = l.Product
			}
			if req.Location == "" {
				req.Location = l.Location
			}
		}
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "customer_name or a known lead_id required")
		return
	}

	msg := h.Assist.OutreachMessage(ctx, req.CustomerName, req.Product, req.Location)
	ok(c, http.StatusOK, OutreachResponse{Message: msg})
}

// Reply drafts reply suggestions for a customer message.
func (h *Handlers) Reply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	n := req.Count
	if n == 0 {
		n = 3
	}
	if req.Context != "" && n == 1 {
		// Single contextual suggestion keeps the extra context in the prompt.
		s := h.Assist.ReplySuggestion(c.Request.Context(), req.Message, req.Product, req.Context)
		ok(c, http.StatusOK, ReplyResponse{Suggestions: []string{s}})
		return
	}
	ok(c, http.StatusOK, ReplyResponse{
		Suggestions: h.Assist.ReplySuggestions(c.Request.Context(), req.Message, req.Product, n),
	})
}

// TrainingContent generates micro-training content for a topic.
func (h *Handlers) TrainingContent(c *gin.Context) {
	var req TrainingContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "topic required")
		return
	}
	content := h.Assist.TrainingContent(c.Request.Context(), req.Topic, req.Level)
	ok(c, http.StatusOK, TrainingContentResponse{Content: content})
}
