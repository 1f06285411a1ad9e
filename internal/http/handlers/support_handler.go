// Post-sale support HTTP handlers.
//
//   - GET  /customers/{id}/queries          (newest first; empty on outage)
//   - POST /customers/{id}/queries          (open a query)
//   - POST /queries/{id}/resolve            (record the AI response, fire-and-forget)
//
// Support queries are remote-only: there is no seed fallback, so list reads
// degrade to an empty set and writes are logged no-ops during an outage.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// ListQueriesResponse wraps a customer's support queries.
type ListQueriesResponse struct {
	Queries []domain.CustomerQuery `json:"queries"`
}

// CreateQueryRequest is the JSON payload for opening a support query.
type CreateQueryRequest struct {
	Question string `json:"question" binding:"required,min=1"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// ResolveQueryRequest carries the AI-drafted resolution text. When empty,
// the server drafts one from the original question.
type ResolveQueryRequest struct {
	Response string `json:"response"`
	// Product gives the draft some context when Response is empty.
	Product string `json:"product"`
}

// ListQueries returns the customer's support queries, newest first.
func (h *Handlers) ListQueries(c *gin.Context) {
	qs := h.Support.QueriesFor(c.Request.Context(), c.Param("id"))
	ok(c, http.StatusOK, ListQueriesResponse{Queries: qs})
}

// CreateQuery opens a support query for the customer. During a store outage
// the write is dropped (logged server-side) and the response is 202 with no
// body, mirroring the fire-and-forget contract.
func (h *Handlers) CreateQuery(c *gin.Context) {
	var req CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question required")
		return
	}

	q := h.Support.Open(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Question), req.Category, req.Priority)
	if q == nil {
		c.Status(http.StatusAccepted)
		return
	}
	ok(c, http.StatusCreated, q)
}

// ResolveQuery marks a query resolved with an AI-drafted (or caller-provided)
// response. Always 204: resolution is fire-and-forget.
func (h *Handlers) ResolveQuery(c *gin.Context) {
	ctx := c.Request.Context()

	var req ResolveQueryRequest
	_ = c.ShouldBindJSON(&req)

	response := strings.TrimSpace(req.Response)
	if response == "" {
		response = h.Assist.ReplySuggestion(ctx, "Please help me with my query.", req.Product, "")
	}

	h.Support.Resolve(ctx, c.Param("id"), response)
	noContent(c)
}
