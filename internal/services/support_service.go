// Package services – SupportService
//
// Post-sale customer support queries. These operations are remote-only:
// there is no fallback dataset for support history, so reads return an
// empty slice on any failure and writes are logged no-ops when the remote
// is down.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/repo"
)

// SupportService serves post-sale customer queries.
type SupportService struct {
	DB     *gorm.DB
	Remote *Remote
}

// QueriesFor returns the customer's support queries, newest first. Any
// failure (gate closed, database error) yields an empty slice, never an
// error.
func (s *SupportService) QueriesFor(ctx context.Context, customerID string) []domain.CustomerQuery {
	tr := otel.Tracer("services/SupportService")
	ctx, span := tr.Start(ctx, "QueriesFor",
		trace.WithAttributes(attribute.String("customer.id", customerID)),
	)
	defer span.End()

	if !s.Remote.Available() {
		return []domain.CustomerQuery{}
	}
	out, err := repo.ListCustomerQueries(ctx, s.DB, customerID)
	if err != nil {
		log.Warn().Err(err).Str("customer_id", customerID).Msg("customer queries read failed")
		return []domain.CustomerQuery{}
	}
	if out == nil {
		out = []domain.CustomerQuery{}
	}
	return out
}

// Open records a new open query for the customer. Remote-only; failures are
// logged and swallowed, in which case the returned query is nil.
func (s *SupportService) Open(ctx context.Context, customerID, question, category, priority string) *domain.CustomerQuery {
	var created *domain.CustomerQuery
	swallowWrite(s.Remote, "support.open", func() error {
		q, err := repo.CreateCustomerQuery(ctx, s.DB, customerID, question, category, priority)
		if err != nil {
			return err
		}
		created = q
		return nil
	})
	return created
}

// Resolve marks a query resolved with the given response text. Remote-only;
// failures (including unknown IDs) are logged and swallowed.
func (s *SupportService) Resolve(ctx context.Context, queryID, response string) {
	swallowWrite(s.Remote, "support.resolve", func() error {
		return repo.ResolveCustomerQuery(ctx, s.DB, queryID, response)
	})
}
