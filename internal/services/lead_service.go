// Package services – LeadService
//
// This file implements lead retrieval and the status-update operation.
// Reads carry the remote-else-fallback policy; the status update is a
// remote-only write whose failures are logged and swallowed, per the
// availability-first contract (callers never see a remote error).
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// DefaultTopLeads caps the lead list when the caller does not ask for a
// specific limit.
const DefaultTopLeads = 10

// LeadService serves lead lists and owns the status-update mutation.
type LeadService struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *Remote
}

// TopLeads returns up to limit leads assigned to partnerID, ordered by score
// descending. Ties break by most recent contact first, then lead ID; both
// sources sort identically. A non-positive limit applies DefaultTopLeads.
// The result is never an error: remote failures degrade to the fallback set.
func (s *LeadService) TopLeads(ctx context.Context, partnerID string, limit int) []domain.Lead {
	tr := otel.Tracer("services/LeadService")
	ctx, span := tr.Start(ctx, "TopLeads",
		trace.WithAttributes(
			attribute.String("partner.id", partnerID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = DefaultTopLeads
	}

	leads, _ := readThrough(s.Remote, "lead.top",
		func() ([]domain.Lead, error) {
			return repo.TopLeads(ctx, s.DB, partnerID, limit)
		},
		func() ([]domain.Lead, bool) {
			return s.Store.TopLeads(partnerID, limit), true
		},
	)
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads
}

// Lead returns a single lead by ID, falling back to the in-memory set.
func (s *LeadService) Lead(ctx context.Context, id string) (*domain.Lead, error) {
	l, ok := readThrough(s.Remote, "lead.get",
		func() (*domain.Lead, error) {
			return repo.GetLead(ctx, s.DB, id)
		},
		func() (*domain.Lead, bool) {
			if l, ok := s.Store.Lead(id); ok {
				return &l, true
			}
			return nil, false
		},
	)
	if !ok || l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

// UpdateStatus transitions a lead to status and stamps its last-contact
// time. The note is an operator annotation carried into the log only.
//
// The write is remote-only: when the gate is closed or the database rejects
// the update, the failure is logged and swallowed. The only error callers
// can observe is ErrInvalidStatus for an unknown status value.
func (s *LeadService) UpdateStatus(ctx context.Context, leadID, status, note string) error {
	switch status {
	case domain.LeadStatusHot, domain.LeadStatusWarm, domain.LeadStatusCold, domain.LeadStatusContacted:
	default:
		return ErrInvalidStatus
	}

	log.Info().
		Str("lead_id", leadID).
		Str("status", status).
		Str("note", note).
		Msg("lead status update")

	swallowWrite(s.Remote, "lead.update_status", func() error {
		return repo.UpdateLeadStatus(ctx, s.DB, leadID, status, time.Now().UTC())
	})
	return nil
}
