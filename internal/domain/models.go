// Package domain defines the persistence models for partners, leads,
// training content, chat messages, and post-sale support queries. These
// types are mapped with GORM and form the core data layer of the GrowEasy
// partner backend. The same structs are served from the in-memory fallback
// store, so every read path returns identical shapes regardless of which
// source answered.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Lead status values. A lead moves to StatusContacted after an outbound
// message has been sent on its behalf; hot/warm/cold reflect scoring buckets
// assigned at intake.
const (
	LeadStatusHot       = "hot"
	LeadStatusWarm      = "warm"
	LeadStatusCold      = "cold"
	LeadStatusContacted = "contacted"
)

// Chat sender roles.
const (
	SenderUser     = "user"
	SenderCustomer = "customer"
	SenderAI       = "ai"
)

// Training module types and difficulties.
const (
	ModuleTypeVideo       = "video"
	ModuleTypeQuiz        = "quiz"
	ModuleTypeInteractive = "interactive"
	ModuleTypePractical   = "practical"

	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// StringList is a []string stored as a JSON-encoded TEXT column. SQLite has
// no native array type, so specializations and interest tags round-trip
// through JSON.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return errors.New("string list: unsupported column type")
	}
}

// IntMap is a map[string]int stored as a JSON-encoded TEXT column. Used for
// per-skill sub-scores on partner profiles.
type IntMap map[string]int

// Value implements driver.Valuer.
func (m IntMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// Scan implements sql.Scanner.
func (m *IntMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	default:
		return errors.New("int map: unsupported column type")
	}
}

// PartnerProfile represents a sales partner using the dashboard. Profiles
// are created at onboarding and mutated by external sales activity; this
// backend treats them as read-only.
//
// Fields:
//   - ID: stable partner identifier (e.g. "gp_001").
//   - ConversionRate: fraction of leads converted, in [0,1].
//   - MonthlyEarnings: current-month earnings in whole rupees.
//   - PerformanceScore: composite 0–100 score.
//   - SkillScores: per-skill sub-scores, each 0–100.
type PartnerProfile struct {
	ID               string     `json:"id"                gorm:"type:varchar(64);primaryKey"`
	Name             string     `json:"name"              gorm:"type:varchar(255);not null"`
	Email            string     `json:"email"             gorm:"type:varchar(255)"`
	Phone            string     `json:"phone"             gorm:"type:varchar(32)"`
	Location         string     `json:"location"          gorm:"type:varchar(255)"`
	TenureMonths     int        `json:"tenure_months"`
	TotalSales       int        `json:"total_sales"`
	ConversionRate   float64    `json:"conversion_rate"`
	MonthlyEarnings  int        `json:"monthly_earnings"`
	Specializations  StringList `json:"specializations"   gorm:"type:text"`
	PerformanceScore int        `json:"performance_score"`
	JoinedAt         time.Time  `json:"joined_at"`
	SkillScores      IntMap     `json:"skill_scores"      gorm:"type:text"`
}

// TableName returns the database table name for PartnerProfile.
func (PartnerProfile) TableName() string { return "partner_profiles" }

// Lead represents a prospective or existing buyer tracked against a partner.
// Leads are created by external sales intake; only Status and LastContactAt
// are mutated here (via the status-update operation).
type Lead struct {
	ID            string     `json:"id"              gorm:"type:varchar(64);primaryKey"`
	Name          string     `json:"name"            gorm:"type:varchar(255);not null"`
	Age           int        `json:"age"`
	Income        int        `json:"income"`
	Location      string     `json:"location"        gorm:"type:varchar(255)"`
	Occupation    string     `json:"occupation"      gorm:"type:varchar(255)"`
	FamilySize    int        `json:"family_size"`
	Interests     StringList `json:"interests"       gorm:"type:text"`
	Product       string     `json:"product"         gorm:"type:varchar(128)"`
	Score         int        `json:"score"           gorm:"index:idx_partner_leads,priority:2,sort:desc"`
	Status        string     `json:"status"          gorm:"type:varchar(16);not null;check:status IN ('hot','warm','cold','contacted')"`
	Phone         string     `json:"phone"           gorm:"type:varchar(32)"`
	Email         string     `json:"email"           gorm:"type:varchar(255)"`
	Address       string     `json:"address"         gorm:"type:text"`
	Value         int        `json:"value"`
	LastContactAt time.Time  `json:"last_contact_at"`
	PartnerID     string     `json:"partner_id"      gorm:"type:varchar(64);not null;index:idx_partner_leads,priority:1"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }

// QuizQuestion is one question inside a quiz-type module's content payload.
// Correct indexes into Options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// QuestionList is a []QuizQuestion stored as a JSON-encoded TEXT column.
type QuestionList []QuizQuestion

// Value implements driver.Valuer.
func (q QuestionList) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal(q)
	return string(b), err
}

// Scan implements sql.Scanner.
func (q *QuestionList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*q = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), q)
	case []byte:
		return json.Unmarshal(v, q)
	default:
		return errors.New("question list: unsupported column type")
	}
}

// TrainingModule is immutable reference curriculum shared by all partners.
// Quiz attempts produce separate QuizResult rows; the module itself is never
// mutated.
type TrainingModule struct {
	ID              string       `json:"id"               gorm:"type:varchar(64);primaryKey"`
	Title           string       `json:"title"            gorm:"type:varchar(255);not null"`
	Description     string       `json:"description"      gorm:"type:text"`
	Type            string       `json:"type"             gorm:"type:varchar(16);not null;check:type IN ('video','quiz','interactive','practical')"`
	DurationMinutes int          `json:"duration_minutes"`
	Difficulty      string       `json:"difficulty"       gorm:"type:varchar(16);not null;check:difficulty IN ('beginner','intermediate','advanced')"`
	Category        string       `json:"category"         gorm:"type:varchar(128)"`
	CompletionRate  float64      `json:"completion_rate"`
	AverageScore    int          `json:"average_score"`
	Questions       QuestionList `json:"questions"        gorm:"type:text"`
}

// TableName returns the database table name for TrainingModule.
func (TrainingModule) TableName() string { return "training_modules" }

// QuizResult records one quiz attempt. Append-only.
type QuizResult struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	PartnerID   string    `json:"partner_id"   gorm:"type:varchar(64);not null;index"`
	ModuleID    string    `json:"module_id"    gorm:"type:varchar(64);not null;index"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// TableName returns the database table name for QuizResult.
func (QuizResult) TableName() string { return "quiz_results" }

// ChatMessage is a single utterance in a sales-copilot conversation.
// Messages form an append-only log ordered by the client-generated Timestamp
// (milliseconds); existing rows are never mutated or deleted.
//
// Fields:
//   - ConversationID: groups messages, e.g. "chat_<leadID>_<epoch>".
//   - Sender: "user" (the partner), "customer", or "ai".
//   - Timestamp: client clock in Unix milliseconds; ordering within one
//     conversation relies on this being monotonic per writer.
type ChatMessage struct {
	ID             string `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string `json:"conversation_id" gorm:"type:varchar(128);not null;index:idx_conv_msgs,priority:1"`
	Sender         string `json:"sender"          gorm:"type:varchar(16);not null;check:sender IN ('user','customer','ai')"`
	Text           string `json:"text"            gorm:"type:text;not null"`
	Timestamp      int64  `json:"timestamp"       gorm:"index:idx_conv_msgs,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// CustomerQuery is a post-sale support question raised by a customer.
// Queries start open and may be resolved with a response.
type CustomerQuery struct {
	ID         string     `json:"id"          gorm:"type:char(36);primaryKey"`
	CustomerID string     `json:"customer_id" gorm:"type:varchar(64);not null;index"`
	Question   string     `json:"question"    gorm:"type:text;not null"`
	Category   string     `json:"category"    gorm:"type:varchar(64)"`
	Priority   string     `json:"priority"    gorm:"type:varchar(16)"`
	Status     string     `json:"status"      gorm:"type:varchar(16);not null;default:'open'"`
	AIResponse string     `json:"ai_response" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// TableName returns the database table name for CustomerQuery.
func (CustomerQuery) TableName() string { return "customer_queries" }
