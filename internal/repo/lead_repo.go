// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Lead model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// TopLeads returns a partner's leads ordered by score descending, truncated
// to limit (limit <= 0 means no cap). Ties break by most recent contact
// first, then ID ascending, so the order is deterministic and matches the
// in-memory fallback path.
func TopLeads(ctx context.Context, db *gorm.DB, partnerID string, limit int) ([]domain.Lead, error) {
	var out []domain.Lead
	q := db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("score DESC, last_contact_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetLead fetches a lead by ID, or ErrNotFound if missing.
func GetLead(ctx context.Context, db *gorm.DB, id string) (*domain.Lead, error) {
	var l domain.Lead
	if err := db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLeadStatus sets a lead's status and stamps last_contact_at. If no
// rows are affected (lead missing), it returns ErrNotFound. On DB error,
// the raw error is returned.
func UpdateLeadStatus(ctx context.Context, db *gorm.DB, id, status string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          status,
			"last_contact_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertLead inserts or replaces a lead row by primary key (seeder use).
func UpsertLead(ctx context.Context, db *gorm.DB, l *domain.Lead) error {
	return db.WithContext(ctx).Save(l).Error
}
