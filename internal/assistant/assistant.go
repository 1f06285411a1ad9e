// Package assistant turns structured domain values into natural-language
// prompts for the hosted text model and normalizes what comes back. Every
// operation degrades to a deterministic template when the model call fails,
// so callers never receive an empty string and never see an error from this
// package. The functions are pure with respect to local state; the only
// side effect is the outbound network call.
package assistant

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rs/zerolog/log"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/genai"
)

// Assistant assembles prompts and forwards them to the generative client.
type Assistant struct {
	Gen genai.Generator
}

// New constructs an Assistant over the given generator.
func New(gen genai.Generator) *Assistant {
	return &Assistant{Gen: gen}
}

var (
	outreachTmpl = template.Must(template.New("outreach").Parse(
		`Generate a personalized WhatsApp message for a GrowEasy partner to reach out to a potential customer:
Customer: {{.Name}}
Product: {{.Product}}
Location: {{.Location}}

Make it friendly, localized, and compelling. Keep it under 50 words.`))

	replyTmpl = template.Must(template.New("reply").Parse(
		`You are a helpful sales assistant for GrowEasy partners selling {{.Product}}.

Customer message: "{{.Message}}"
{{if .Context}}Context: {{.Context}}
{{end}}
Generate a professional, empathetic, and persuasive response that:
1. Acknowledges the customer's concern or interest
2. Provides helpful information
3. Moves the conversation forward
4. Maintains a friendly tone

Keep the response under 100 words and make it conversational.`))

	trainingTmpl = template.Must(template.New("training").Parse(
		`Create a personalized training module for a GrowEasy partner on "{{.Topic}}" for {{.Level}} level. Include:
1. A brief explanation (2-3 sentences)
2. 3 key tips
3. A practical example
Keep it concise and actionable for micro-entrepreneurs selling financial products.`))

	narrativeTmpl = template.Must(template.New("narrative").Parse(
		`Based on this sales performance data for partner {{.Name}}:
- monthly earnings: INR {{.MonthlyEarnings}}
- conversion rate: {{printf "%.0f" .ConversionPct}}%
- total sales: {{.TotalSales}}
- performance score: {{.PerformanceScore}}/100

Provide 3 actionable growth insights to increase their income. Focus on:
1. Product recommendations
2. Customer targeting
3. Sales strategies`))
)

// Fixed reply templates served when the model is unreachable. The set is
// small and stable so the UI always has a usable suggestion.
var replyFallbacks = []string{
	"I understand your concern. Let me provide you with more details that might help.",
	"Would you like to schedule a call to discuss this further?",
	"Let me explain the benefits that would be most relevant to you.",
}

// render executes a fixed template; templates are parsed at init, so the
// only failure mode is an execution error, which is a programming bug.
func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("template", t.Name()).Msg("prompt render failed")
		return ""
	}
	return buf.String()
}

// OutreachMessage produces a short, friendly first-contact message for a
// customer. On any model failure it returns a deterministic template
// interpolating the same three inputs, never an empty string.
func (a *Assistant) OutreachMessage(ctx context.Context, customerName, product, location string) string {
	prompt := render(outreachTmpl, struct{ Name, Product, Location string }{customerName, product, location})

	if text, err := a.Gen.Generate(ctx, prompt); err == nil {
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	} else {
		log.Warn().Err(err).Msg("outreach generation failed, using fallback")
	}
	return fmt.Sprintf(
		"Hi %s! I hope you're doing well. I wanted to share some exciting %s options available for you in %s. Would you like to know more?",
		customerName, product, location)
}

// ReplySuggestion produces a professional, empathetic reply to a customer
// message. Wrapping quote characters are stripped from the model output.
// On failure, one of the fixed fallback replies is returned (selected
// deterministically from the message so repeated calls are stable).
func (a *Assistant) ReplySuggestion(ctx context.Context, customerMessage, product, extra string) string {
	prompt := render(replyTmpl, struct{ Message, Product, Context string }{customerMessage, product, extra})

	if text, err := a.Gen.Generate(ctx, prompt); err == nil {
		if t := stripQuotes(text); t != "" {
			return t
		}
	} else {
		log.Warn().Err(err).Msg("reply generation failed, using fallback")
	}
	return replyFallbacks[fallbackIndex(customerMessage)]
}

// ReplySuggestions produces up to n reply angles for the same customer
// message: a direct answer, a clarifying question, and concrete next steps.
// Slots whose generation fails are filled from the fixed fallback set, so
// the result always has n non-empty entries (n is clamped to [1,3]).
func (a *Assistant) ReplySuggestions(ctx context.Context, customerMessage, product string, n int) []string {
	if n < 1 {
		n = 1
	}
	if n > 3 {
		n = 3
	}
	angles := []string{
		fmt.Sprintf("Customer says: %q about %s. Provide a direct helpful response.", customerMessage, product),
		fmt.Sprintf("Customer says: %q about %s. Ask a follow-up question to understand their needs better.", customerMessage, product),
		fmt.Sprintf("Customer says: %q about %s. Suggest concrete next steps they can take.", customerMessage, product),
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := a.Gen.Generate(ctx, angles[i])
		if err == nil {
			if t := stripQuotes(text); t != "" {
				out = append(out, t)
				continue
			}
		} else {
			log.Warn().Err(err).Int("slot", i).Msg("suggestion generation failed, using fallback")
		}
		out = append(out, replyFallbacks[i%len(replyFallbacks)])
	}
	return out
}

// TrainingContent produces a short personalized training text for a topic
// and skill level. Static fallback on failure.
func (a *Assistant) TrainingContent(ctx context.Context, topic, level string) string {
	caser := cases.Title(language.English)
	prompt := render(trainingTmpl, struct{ Topic, Level string }{caser.String(topic), level})

	if text, err := a.Gen.Generate(ctx, prompt); err == nil {
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	} else {
		log.Warn().Err(err).Str("topic", topic).Msg("training content generation failed")
	}
	return "Training content will be available soon. Please try again later."
}

// GrowthNarrative produces a free-text growth summary from a partner's
// performance record. Static fallback on failure. The structured insight
// list is computed separately by the insights package; this narrative only
// supplements it.
func (a *Assistant) GrowthNarrative(ctx context.Context, p domain.PartnerProfile) string {
	prompt := render(narrativeTmpl, struct {
		Name             string
		MonthlyEarnings  int
		ConversionPct    float64
		TotalSales       int
		PerformanceScore int
	}{p.Name, p.MonthlyEarnings, p.ConversionRate * 100, p.TotalSales, p.PerformanceScore})

	if text, err := a.Gen.Generate(ctx, prompt); err == nil {
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	} else {
		log.Warn().Err(err).Str("partner_id", p.ID).Msg("growth narrative generation failed")
	}
	return "Growth insights will be available soon. Please check back later."
}

// stripQuotes trims whitespace and removes a single layer of wrapping
// quote characters the model tends to add around conversational replies.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

// fallbackIndex maps a message to a stable fallback slot so the same input
// always yields the same canned reply.
func fallbackIndex(s string) int {
	var sum int
	for _, r := range s {
		sum += int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum % len(replyFallbacks)
}
