// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// PartnerProfile model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a profile is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The fallback policy that shields callers from these errors lives in the
// services layer; nothing here swallows anything.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetPartner fetches a partner profile by ID. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetPartner(ctx context.Context, db *gorm.DB, id string) (*domain.PartnerProfile, error) {
	var p domain.PartnerProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPartner inserts or replaces a partner profile row by primary key.
// Used by the seeder to mirror the fallback dataset; replace-by-id keeps
// repeated seeding idempotent.
func UpsertPartner(ctx context.Context, db *gorm.DB, p *domain.PartnerProfile) error {
	return db.WithContext(ctx).Save(p).Error
}

// CountPartners returns the total number of partner profiles.
func CountPartners(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.PartnerProfile{}).Count(&total).Error
	return total, err
}
