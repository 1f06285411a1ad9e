// Quiz question generation with validated parsing.
//
// The hosted model is asked for machine-parseable JSON. The response passes
// through a single validated-parse step: markdown code fences are stripped,
// the JSON is decoded, and the shape is checked (non-empty question, exactly
// four options, correct index in range). Any violation, not just a decode
// error, triggers the fixed fallback question, so callers always receive a
// well-formed object.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// quizOptionCount is the required number of answer options.
const quizOptionCount = 4

const quizPromptTmpl = `Create a multiple-choice quiz question about %s for GrowEasy partners. Include:
1. A practical scenario-based question
2. Exactly 4 answer options
3. The index (0-3) of the correct option
4. A brief explanation
Respond with JSON only, using fields: question, options, correct, explanation`

// fallbackQuizQuestion is served whenever the model output cannot be
// validated. Fixed so behavior under failure is deterministic.
func fallbackQuizQuestion() domain.QuizQuestion {
	return domain.QuizQuestion{
		Question: "What is the most important factor when selling insurance?",
		Options: []string{
			"Price",
			"Customer needs",
			"Commission",
			"Brand name",
		},
		Correct:     1,
		Explanation: "Understanding customer needs helps provide the right solution and builds trust.",
	}
}

// QuizQuestion asks the model for a structured question about topic and
// validates the result. On call failure, decode failure, or any schema
// violation it returns the fixed fallback question. The result always has
// exactly four options and a correct index pointing at one of them.
func (a *Assistant) QuizQuestion(ctx context.Context, topic string) domain.QuizQuestion {
	prompt := fmt.Sprintf(quizPromptTmpl, topic)

	text, err := a.Gen.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("quiz generation failed, using fallback")
		return fallbackQuizQuestion()
	}

	q, err := parseQuizQuestion(text)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("quiz output rejected, using fallback")
		return fallbackQuizQuestion()
	}
	return q
}

// parseQuizQuestion decodes and validates one model response. It is split
// out so the rejection matrix (missing fields, wrong arity, out-of-range
// index) can be tested without a generator.
func parseQuizQuestion(raw string) (domain.QuizQuestion, error) {
	var q domain.QuizQuestion
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &q); err != nil {
		return domain.QuizQuestion{}, err
	}
	if strings.TrimSpace(q.Question) == "" {
		return domain.QuizQuestion{}, errMalformed("empty question")
	}
	if len(q.Options) != quizOptionCount {
		return domain.QuizQuestion{}, errMalformed("options must have exactly 4 entries")
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return domain.QuizQuestion{}, errMalformed("blank option")
		}
	}
	if q.Correct < 0 || q.Correct >= quizOptionCount {
		return domain.QuizQuestion{}, errMalformed("correct index out of range")
	}
	return q, nil
}

type errMalformed string

func (e errMalformed) Error() string { return "malformed quiz question: " + string(e) }

// stripCodeFence removes a surrounding markdown code fence (``` or
// ```json) that models frequently wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
