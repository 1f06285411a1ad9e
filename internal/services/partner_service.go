// Package services – PartnerService
//
// Read-only access to partner profiles with the remote-else-fallback policy.
// Downstream consumers (insight generation, the growth playbook) receive the
// same struct shape regardless of which source answered.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// PartnerService serves partner profiles.
type PartnerService struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *Remote
}

// Profile returns the profile for id. When the remote gate is closed, or the
// database read fails for any reason, the fallback store answers for the
// same id. ErrPartnerNotFound is returned only when both sources miss.
func (s *PartnerService) Profile(ctx context.Context, id string) (*domain.PartnerProfile, error) {
	tr := otel.Tracer("services/PartnerService")
	ctx, span := tr.Start(ctx, "Profile",
		trace.WithAttributes(attribute.String("partner.id", id)),
	)
	defer span.End()

	p, ok := readThrough(s.Remote, "partner.profile",
		func() (*domain.PartnerProfile, error) {
			return repo.GetPartner(ctx, s.DB, id)
		},
		func() (*domain.PartnerProfile, bool) {
			if p, ok := s.Store.Partner(id); ok {
				return &p, true
			}
			return nil, false
		},
	)
	if !ok || p == nil {
		return nil, ErrPartnerNotFound
	}
	return p, nil
}
