package store

import (
	"time"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// Dataset is the fixed seed served by the fallback store and mirrored,
// best effort, into the database on first initialization.
type Dataset struct {
	Partners []domain.PartnerProfile
	Leads    []domain.Lead
	Modules  []domain.TrainingModule
}

// SeedDataset returns the demo dataset. Record IDs are stable so repeated
// seeding replaces rather than duplicates entries.
func SeedDataset() Dataset {
	now := time.Now().UTC()

	return Dataset{
		Partners: []domain.PartnerProfile{
			{
				ID:               "gp_001",
				Name:             "Rajesh Kumar",
				Email:            "rajesh.kumar@groweasy.in",
				Phone:            "+91 98765 40001",
				Location:         "Lucknow, UP",
				TenureMonths:     14,
				TotalSales:       87,
				ConversionRate:   0.32,
				MonthlyEarnings:  18750,
				Specializations:  domain.StringList{"Health Insurance", "Personal Loans"},
				PerformanceScore: 78,
				JoinedAt:         now.AddDate(-1, -2, 0),
				SkillScores: domain.IntMap{
					"objection_handling": 72,
					"product_knowledge":  81,
					"follow_up":          64,
				},
			},
		},
		Leads: []domain.Lead{
			{
				ID: "lead_001", Name: "Ravi Kumar", Age: 34, Income: 650000,
				Location: "Lucknow, UP", Occupation: "Shop Owner", FamilySize: 4,
				Interests: domain.StringList{"Health Insurance", "Savings"},
				Product:   "Health Insurance", Score: 94, Status: domain.LeadStatusHot,
				Phone: "+91 98765 43210", Email: "ravi.kumar@email.com",
				Address: "12 Hazratganj, Lucknow", Value: 65000,
				LastContactAt: now.Add(-2 * time.Hour), PartnerID: "gp_001",
			},
			{
				ID: "lead_002", Name: "Priya Sharma", Age: 29, Income: 1200000,
				Location: "New Delhi", Occupation: "Software Engineer", FamilySize: 2,
				Interests: domain.StringList{"Personal Loan", "Credit Card"},
				Product:   "Personal Loan", Score: 89, Status: domain.LeadStatusHot,
				Phone: "+91 98765 43211", Email: "priya.sharma@email.com",
				Address: "44 Dwarka Sector 10, New Delhi", Value: 185000,
				LastContactAt: now.Add(-24 * time.Hour), PartnerID: "gp_001",
			},
			{
				ID: "lead_003", Name: "Amit Singh", Age: 41, Income: 900000,
				Location: "Mumbai, MH", Occupation: "Bank Clerk", FamilySize: 5,
				Interests: domain.StringList{"Credit Card"},
				Product:   "Credit Card", Score: 82, Status: domain.LeadStatusWarm,
				Phone: "+91 98765 43212", Email: "amit.singh@email.com",
				Address: "7 Andheri East, Mumbai", Value: 35000,
				LastContactAt: now.Add(-48 * time.Hour), PartnerID: "gp_001",
			},
			{
				ID: "lead_004", Name: "Sunita Patel", Age: 37, Income: 1500000,
				Location: "Ahmedabad, GJ", Occupation: "Business Owner", FamilySize: 3,
				Interests: domain.StringList{"Mutual Funds", "Life Insurance"},
				Product:   "Mutual Funds", Score: 91, Status: domain.LeadStatusHot,
				Phone: "+91 98765 43213", Email: "sunita.patel@email.com",
				Address: "21 SG Highway, Ahmedabad", Value: 125000,
				LastContactAt: now.Add(-4 * time.Hour), PartnerID: "gp_001",
			},
			{
				ID: "lead_005", Name: "Rajesh Gupta", Age: 45, Income: 800000,
				Location: "Pune, MH", Occupation: "Teacher", FamilySize: 4,
				Interests: domain.StringList{"Life Insurance"},
				Product:   "Life Insurance", Score: 76, Status: domain.LeadStatusWarm,
				Phone: "+91 98765 43214", Email: "rajesh.gupta@email.com",
				Address: "3 Kothrud, Pune", Value: 95000,
				LastContactAt: now.Add(-72 * time.Hour), PartnerID: "gp_001",
			},
		},
		Modules: []domain.TrainingModule{
			{
				ID: "mod_001", Title: "Credit Card Sales Mastery",
				Description: "Positioning, eligibility checks, and closing techniques for credit cards.",
				Type:        domain.ModuleTypeQuiz, DurationMinutes: 3,
				Difficulty: domain.DifficultyIntermediate, Category: "Credit Cards",
				CompletionRate: 0.71, AverageScore: 74,
				Questions: domain.QuestionList{
					{
						Question: "A customer says the annual fee is too high. What is the best first response?",
						Options: []string{
							"Offer a different card immediately",
							"Explain the rewards that offset the fee",
							"Lower your commission",
							"End the conversation",
						},
						Correct:     1,
						Explanation: "Anchoring value against the fee keeps the conversation open without switching products.",
					},
					{
						Question: "Which document is mandatory for a salaried credit card applicant?",
						Options: []string{
							"Property deed",
							"Salary slip or bank statement",
							"Vehicle registration",
							"School certificate",
						},
						Correct:     1,
						Explanation: "Income proof drives the credit limit decision.",
					},
				},
			},
			{
				ID: "mod_002", Title: "Health Insurance Objection Handling",
				Description: "Common objections around premiums, claims, and exclusions.",
				Type:        domain.ModuleTypeVideo, DurationMinutes: 5,
				Difficulty: domain.DifficultyBeginner, Category: "Health Insurance",
				CompletionRate: 0.84, AverageScore: 81,
			},
			{
				ID: "mod_003", Title: "Personal Loan Customer Profiling",
				Description: "Reading income signals and matching loan products to customer profiles.",
				Type:        domain.ModuleTypeInteractive, DurationMinutes: 4,
				Difficulty: domain.DifficultyAdvanced, Category: "Personal Loans",
				CompletionRate: 0.58, AverageScore: 69,
			},
			{
				ID: "mod_004", Title: "Digital Payment Solutions",
				Description: "Pitching UPI-linked products to small merchants.",
				Type:        domain.ModuleTypePractical, DurationMinutes: 2,
				Difficulty: domain.DifficultyBeginner, Category: "Digital Payments",
				CompletionRate: 0.9, AverageScore: 88,
			},
		},
	}
}

// Load replaces the store's partner, lead, and module records with the
// dataset, keyed by ID. Calling it repeatedly with the same dataset yields
// the same set of records (replace-by-id, no duplication).
func (s *Store) Load(d Dataset) {
	for _, p := range d.Partners {
		s.PutPartner(p)
	}
	for _, l := range d.Leads {
		s.PutLead(l)
	}
	for _, m := range d.Modules {
		s.PutModule(m)
	}
}
