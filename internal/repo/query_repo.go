// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for post-sale
// customer support queries.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// ListCustomerQueries returns the support queries for a customer, newest
// first.
func ListCustomerQueries(ctx context.Context, db *gorm.DB, customerID string) ([]domain.CustomerQuery, error) {
	var out []domain.CustomerQuery
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CreateCustomerQuery inserts a new open support query.
func CreateCustomerQuery(ctx context.Context, db *gorm.DB, customerID, question, category, priority string) (*domain.CustomerQuery, error) {
	q := &domain.CustomerQuery{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Question:   question,
		Category:   category,
		Priority:   priority,
		Status:     "open",
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// ResolveCustomerQuery marks a query resolved with the given response and
// stamps resolved_at. Returns ErrNotFound when the query does not exist.
func ResolveCustomerQuery(ctx context.Context, db *gorm.DB, id, response string) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.CustomerQuery{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      "resolved",
			"ai_response": response,
			"resolved_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
