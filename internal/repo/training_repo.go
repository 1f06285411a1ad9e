// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for training
// modules and quiz results.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// ListModules returns the shared training curriculum ordered by module ID.
func ListModules(ctx context.Context, db *gorm.DB) ([]domain.TrainingModule, error) {
	var out []domain.TrainingModule
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// GetModule fetches a training module by ID, or ErrNotFound if missing.
func GetModule(ctx context.Context, db *gorm.DB, id string) (*domain.TrainingModule, error) {
	var m domain.TrainingModule
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertModule inserts or replaces a module row by primary key (seeder use).
func UpsertModule(ctx context.Context, db *gorm.DB, m *domain.TrainingModule) error {
	return db.WithContext(ctx).Save(m).Error
}

// CreateQuizResult appends a quiz attempt with a UUID primary key and UTC
// completion timestamp. Results are append-only; there is no update path.
func CreateQuizResult(ctx context.Context, db *gorm.DB, partnerID, moduleID string, score int) (*domain.QuizResult, error) {
	r := &domain.QuizResult{
		ID:          uuid.NewString(),
		PartnerID:   partnerID,
		ModuleID:    moduleID,
		Score:       score,
		CompletedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListQuizResults returns a partner's quiz attempts, most recent first.
func ListQuizResults(ctx context.Context, db *gorm.DB, partnerID string) ([]domain.QuizResult, error) {
	var out []domain.QuizResult
	err := db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("completed_at DESC").
		Find(&out).Error
	return out, err
}
