// Lead HTTP handlers.
//
//   - GET   /partners/{id}/leads   (top leads by score, truncated to ?limit=)
//   - GET   /leads/{id}            (single lead)
//   - PATCH /leads/{id}/status     (status + last-contact update, fire-and-forget)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/services"
	"github.com/groweasy/groweasy-backend/internal/utils"
)

// ListLeadsResponse wraps the ranked leads for a partner.
type ListLeadsResponse struct {
	Leads []domain.Lead `json:"leads"`
}

// UpdateLeadStatusRequest is the JSON payload for a lead status change.
type UpdateLeadStatusRequest struct {
	// Status must be one of: hot, warm, cold, contacted.
	Status string `json:"status" binding:"required"`
	// Note is free-form context for the change; logged, not persisted.
	Note string `json:"note"`
}

// ListTopLeads returns the partner's leads ordered by score descending,
// truncated to the limit query parameter (default 10, capped at 50).
func (h *Handlers) ListTopLeads(c *gin.Context) {
	const maxLimit = 50
	limit := utils.AtoiDefault(c.Query("limit"), services.DefaultTopLeads)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	leads := h.Leads.TopLeads(c.Request.Context(), c.Param("id"), limit)
	ok(c, http.StatusOK, ListLeadsResponse{Leads: leads})
}

// GetLead returns a single lead by id.
func (h *Handlers) GetLead(c *gin.Context) {
	l, err := h.Leads.Lead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "lead not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, l)
}

// UpdateLeadStatus records a status transition. The write is fire-and-forget
// toward the hosted store: validation failures surface as 400, everything
// else answers 204 immediately.
func (h *Handlers) UpdateLeadStatus(c *gin.Context) {
	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	if err := h.Leads.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Note); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of: hot, warm, cold, contacted")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
