// Package services – Seeder
//
// This file implements fallback-data initialization. Initialize is
// idempotent: the fixed dataset is loaded into the in-memory store with
// replace-by-id semantics, and on the first call it is also mirrored, best
// effort, into the database so both sources answer with the same records.
package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// Seeder populates the fallback store and mirrors the seed into the remote
// database once per process.
type Seeder struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *Remote

	mirrorOnce sync.Once
}

// Initialize loads the seed dataset into the fallback store. Safe to call
// multiple times: records replace by ID, so the store never accumulates
// duplicates. The one-time mirror into the database is best effort; any
// failure is logged and does not affect the in-memory seed.
func (s *Seeder) Initialize(ctx context.Context) {
	data := store.SeedDataset()
	s.Store.Load(data)

	s.mirrorOnce.Do(func() {
		if !s.Remote.Available() {
			log.Debug().Msg("remote unavailable, seed mirror skipped")
			return
		}
		var failed int
		for i := range data.Partners {
			if err := repo.UpsertPartner(ctx, s.DB, &data.Partners[i]); err != nil {
				failed++
			}
		}
		for i := range data.Leads {
			if err := repo.UpsertLead(ctx, s.DB, &data.Leads[i]); err != nil {
				failed++
			}
		}
		for i := range data.Modules {
			if err := repo.UpsertModule(ctx, s.DB, &data.Modules[i]); err != nil {
				failed++
			}
		}
		if failed > 0 {
			log.Warn().Int("failed", failed).Msg("seed mirror incomplete")
		} else {
			log.Info().
				Int("partners", len(data.Partners)).
				Int("leads", len(data.Leads)).
				Int("modules", len(data.Modules)).
				Msg("seed mirrored to database")
		}
	})
}
