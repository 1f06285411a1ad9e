// Package services – LearningService
//
// Training curriculum reads and quiz-result writes. The curriculum is
// shared: every partner sees the same module list, so the partner ID is
// accepted for interface symmetry but does not influence the result.
package services

import (
	"context"
	"math"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/search"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// LearningService serves training modules and records quiz attempts.
type LearningService struct {
	DB     *gorm.DB
	Store  *store.Store
	Remote *Remote
}

// Modules returns the shared curriculum ordered by module ID. partnerID is
// intentionally unused (shared-curriculum semantics). Remote failures
// degrade to the fallback set.
func (s *LearningService) Modules(ctx context.Context, partnerID string) []domain.TrainingModule {
	tr := otel.Tracer("services/LearningService")
	ctx, span := tr.Start(ctx, "Modules",
		trace.WithAttributes(attribute.String("partner.id", partnerID)),
	)
	defer span.End()

	mods, _ := readThrough(s.Remote, "training.modules",
		func() ([]domain.TrainingModule, error) {
			return repo.ListModules(ctx, s.DB)
		},
		func() ([]domain.TrainingModule, bool) {
			return s.Store.Modules(), true
		},
	)
	if mods == nil {
		mods = []domain.TrainingModule{}
	}
	return mods
}

// SearchModules ranks the curriculum against a free-text query, best match
// first. Modules with no keyword overlap are excluded; an empty query
// returns an empty slice.
func (s *LearningService) SearchModules(ctx context.Context, partnerID, query string) []domain.TrainingModule {
	ranked := search.Rank(s.Modules(ctx, partnerID), query)
	out := make([]domain.TrainingModule, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Module)
	}
	return out
}

// Module returns a single module by ID, falling back to the in-memory set.
func (s *LearningService) Module(ctx context.Context, id string) (*domain.TrainingModule, error) {
	m, ok := readThrough(s.Remote, "training.module",
		func() (*domain.TrainingModule, error) {
			return repo.GetModule(ctx, s.DB, id)
		},
		func() (*domain.TrainingModule, bool) {
			if m, ok := s.Store.Module(id); ok {
				return &m, true
			}
			return nil, false
		},
	)
	if !ok || m == nil {
		return nil, ErrModuleNotFound
	}
	return m, nil
}

// SaveQuizResult appends a quiz attempt for the partner. The write is
// remote-only; failures are logged and swallowed. ErrInvalidScore is the
// only observable error.
func (s *LearningService) SaveQuizResult(ctx context.Context, partnerID, moduleID string, score int) error {
	if score < 0 || score > 100 {
		return ErrInvalidScore
	}
	swallowWrite(s.Remote, "training.save_result", func() error {
		_, err := repo.CreateQuizResult(ctx, s.DB, partnerID, moduleID, score)
		return err
	})
	return nil
}

// Grade computes the percentage score for a set of answers against a
// quiz module's questions. Answers index the selected option per question;
// missing or out-of-range answers count as wrong. Pure function.
func Grade(m domain.TrainingModule, answers []int) int {
	if len(m.Questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range m.Questions {
		if i < len(answers) && answers[i] == q.Correct {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(m.Questions)) * 100))
}
