// Package insights derives growth suggestions from a partner's performance
// record. This is deliberately not a model: a short fixed list of named
// heuristics is evaluated in order, each producing one Insight from the
// profile's fields. Generate is a pure function (no external calls, no
// clock, no randomness), so identical inputs yield identical output, and
// the result ordering is the heuristic evaluation order.
package insights

import (
	"fmt"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// conversionTarget is the conversion rate a partner is nudged toward by the
// performance heuristic.
const conversionTarget = 0.40

// heuristic maps a profile to one insight. All current heuristics always
// fire; the signature keeps room for conditional ones.
type heuristic func(p domain.PartnerProfile) domain.Insight

// ordered evaluation: performance, expansion, efficiency.
var heuristics = []heuristic{performance, expansion, efficiency}

// Generate evaluates every heuristic against the profile, in order.
func Generate(p domain.PartnerProfile) []domain.Insight {
	out := make([]domain.Insight, 0, len(heuristics))
	for _, h := range heuristics {
		out = append(out, h(p))
	}
	return out
}

// performance keys off the conversion rate: estimate the earnings headroom
// from closing the gap to the target rate.
func performance(p domain.PartnerProfile) domain.Insight {
	pct := int(p.ConversionRate * 100)
	uplift := 0
	if p.ConversionRate < conversionTarget && p.ConversionRate > 0 {
		uplift = int(float64(p.MonthlyEarnings) * (conversionTarget - p.ConversionRate) / p.ConversionRate)
	}
	return domain.Insight{
		Type:  domain.InsightPerformance,
		Title: "Improve Your Conversion Rate",
		Description: fmt.Sprintf(
			"Your conversion rate is %d%%. Closing the gap to %d%% turns more of your existing leads into income without finding a single new customer.",
			pct, int(conversionTarget*100)),
		Action:    "Review your last five lost leads and note the objection that ended each conversation.",
		Potential: potentialLabel(uplift),
	}
}

// expansion suggests a product category the partner does not already
// specialize in.
func expansion(p domain.PartnerProfile) domain.Insight {
	candidates := []string{"Mutual Funds", "Credit Cards", "Term Insurance"}
	covered := make(map[string]struct{}, len(p.Specializations))
	for _, s := range p.Specializations {
		covered[s] = struct{}{}
	}
	suggestion := candidates[0]
	for _, c := range candidates {
		if _, ok := covered[c]; !ok {
			suggestion = c
			break
		}
	}
	return domain.Insight{
		Type:  domain.InsightExpansion,
		Title: fmt.Sprintf("Add %s to Your Portfolio", suggestion),
		Description: fmt.Sprintf(
			"Customers in %s are increasingly asking about %s. Your existing relationships are the cheapest path into that category.",
			p.Location, suggestion),
		Action:    fmt.Sprintf("Complete the %s onboarding module and pitch your three most engaged customers.", suggestion),
		Potential: "₹3,000/month",
	}
}

// efficiency is a constant recommendation to automate follow-ups; it fires
// for every profile.
func efficiency(p domain.PartnerProfile) domain.Insight {
	return domain.Insight{
		Type:  domain.InsightEfficiency,
		Title: "Automate Your Follow-ups",
		Description: fmt.Sprintf(
			"With %d total sales, consistent follow-up is your biggest time sink. Scheduled reminders recover deals that go quiet.",
			p.TotalSales),
		Action:    "Set a fixed follow-up slot each morning and work leads in score order.",
		Potential: "2 hours/week",
	}
}

// potentialLabel formats an estimated monthly uplift, with a floor label
// when no uplift can be computed from the profile.
func potentialLabel(uplift int) string {
	if uplift <= 0 {
		return "₹1,000/month"
	}
	return fmt.Sprintf("₹%d/month", uplift)
}
