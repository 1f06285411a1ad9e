package domain

// Insight types, in heuristic evaluation order.
const (
	InsightPerformance = "performance"
	InsightExpansion   = "expansion"
	InsightEfficiency  = "efficiency"
)

// Insight is a heuristically generated growth suggestion shown to a partner.
// Insights are computed fresh from a PartnerProfile on each request and are
// never persisted; they carry no identity or lifecycle beyond the request.
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Potential   string `json:"potential"`
}
