// Learning-hub HTTP handlers.
//
//   - GET  /training/modules            (shared curriculum)
//   - GET  /training/modules/{id}/quiz  (quiz questions; generated when absent)
//   - POST /training/results            (grade answers / record a score)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/services"
)

// ListModulesResponse wraps the training curriculum.
type ListModulesResponse struct {
	Modules []domain.TrainingModule `json:"modules"`
}

// QuizResponse carries the questions for one module's quiz.
type QuizResponse struct {
	ModuleID  string                `json:"module_id"`
	Questions []domain.QuizQuestion `json:"questions"`
}

// SubmitQuizRequest is the JSON payload for recording a quiz attempt.
// Exactly one of Answers or Score is expected: when Answers is present the
// server grades it against the module's questions; otherwise Score is taken
// as-is (0-100).
type SubmitQuizRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
	Answers  []int  `json:"answers"`
	Score    *int   `json:"score"`
}

// SubmitQuizResponse echoes the recorded attempt.
type SubmitQuizResponse struct {
	PartnerID string `json:"partner_id"`
	ModuleID  string `json:"module_id"`
	Score     int    `json:"score"`
}

// ListModules returns the training curriculum. The curriculum is shared:
// every partner sees the same ordered set. An optional ?q= keyword query
// returns only matching modules, best match first.
func (h *Handlers) ListModules(c *gin.Context) {
	var mods []domain.TrainingModule
	if q := c.Query("q"); q != "" {
		mods = h.Learning.SearchModules(c.Request.Context(), partnerID(c), q)
	} else {
		mods = h.Learning.Modules(c.Request.Context(), partnerID(c))
	}
	if mods == nil {
		mods = []domain.TrainingModule{}
	}
	ok(c, http.StatusOK, ListModulesResponse{Modules: mods})
}

// GetQuiz returns the quiz questions for a module. Modules without stored
// questions get a single question generated from the module's category; the
// generator degrades to a fixed question, so the response always carries at
// least one question with exactly four options.
func (h *Handlers) GetQuiz(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.Learning.Module(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrModuleNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "module not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	qs := []domain.QuizQuestion(m.Questions)
	if len(qs) == 0 {
		topic := m.Category
		if topic == "" {
			topic = m.Title
		}
		qs = []domain.QuizQuestion{h.Assist.QuizQuestion(ctx, topic)}
	}
	ok(c, http.StatusOK, QuizResponse{ModuleID: m.ID, Questions: qs})
}

// SubmitQuizResult grades and records a quiz attempt for the current
// partner. Persistence is fire-and-forget; a response is returned as soon as
// the score is computed and validated.
func (h *Handlers) SubmitQuizResult(c *gin.Context) {
	ctx := c.Request.Context()

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "module_id required")
		return
	}
	if req.Answers == nil && req.Score == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers or score required")
		return
	}

	m, err := h.Learning.Module(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, services.ErrModuleNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "module not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	score := 0
	if req.Answers != nil {
		score = services.Grade(*m, req.Answers)
	} else {
		score = *req.Score
	}

	pid := partnerID(c)
	if err := h.Learning.SaveQuizResult(ctx, pid, m.ID, score); err != nil {
		if errors.Is(err, services.ErrInvalidScore) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "score must be between 0 and 100")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}

	ok(c, http.StatusCreated, SubmitQuizResponse{PartnerID: pid, ModuleID: m.ID, Score: score})
}
