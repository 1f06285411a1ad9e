package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/groweasy/groweasy-backend/internal/config"
	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/http/middleware"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/services"
	"github.com/groweasy/groweasy-backend/internal/store"
)

// failingGen simulates a generative backend that is always down, forcing
// every assistant call onto its deterministic fallback.
type failingGen struct{}

func (failingGen) Generate(context.Context, string) (string, error) {
	return "", errors.New("model unavailable")
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     1000,
		RateBurst:   1000,
		GinMode:     "test",
	}
}

// newTestRouter builds the full engine against the seeded in-memory store
// with the hosted store flagged unavailable, which is the pure-fallback
// deployment shape.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	st.Load(store.SeedDataset())

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:     nil,
		Store:  st,
		Remote: services.NewRemote(false),
		Gen:    failingGen{},
	}, testConfig())
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "identity") // keep bodies readable
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestRouter_NoRouteAndNoMethod(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/health", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("bad method status = %d", w.Code)
	}
}

func TestRouter_GetPartner_FallbackServesSeed(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/partners/gp_001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var p domain.PartnerProfile
	decode(t, w, &p)
	if p.ID != "gp_001" || p.MonthlyEarnings != 18750 || p.ConversionRate != 0.32 {
		t.Fatalf("unexpected seed profile: %+v", p)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/partners/gp_404", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing partner status = %d", w.Code)
	}
}

func TestRouter_TopLeads_OrderAndTruncation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/partners/gp_001/leads?limit=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Leads []domain.Lead `json:"leads"`
	}
	decode(t, w, &resp)
	if len(resp.Leads) != 3 {
		t.Fatalf("expected 3 leads, got %d", len(resp.Leads))
	}
	want := []int{94, 91, 89}
	for i, l := range resp.Leads {
		if l.Score != want[i] {
			t.Fatalf("lead %d score = %d, want %d", i, l.Score, want[i])
		}
	}
}

func TestRouter_UpdateLeadStatus(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/leads/lead_001/status",
		map[string]any{"status": "contacted", "note": "called"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPatch, "/api/v1/leads/lead_001/status",
		map[string]any{"status": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d", w.Code)
	}
}

func TestRouter_TrainingModulesAndQuiz(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/training/modules", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("modules status = %d", w.Code)
	}
	var mods struct {
		Modules []domain.TrainingModule `json:"modules"`
	}
	decode(t, w, &mods)
	if len(mods.Modules) == 0 {
		t.Fatalf("expected seeded modules")
	}

	// mod_001 carries stored quiz questions.
	w = doJSON(t, r, http.MethodGet, "/api/v1/training/modules/mod_001/quiz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("quiz status = %d", w.Code)
	}
	var quiz struct {
		ModuleID  string                `json:"module_id"`
		Questions []domain.QuizQuestion `json:"questions"`
	}
	decode(t, w, &quiz)
	if quiz.ModuleID != "mod_001" || len(quiz.Questions) == 0 {
		t.Fatalf("unexpected quiz payload: %+v", quiz)
	}

	// Modules without stored questions get a generated (fallback) question
	// with exactly four options.
	w = doJSON(t, r, http.MethodGet, "/api/v1/training/modules/mod_002/quiz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generated quiz status = %d", w.Code)
	}
	decode(t, w, &quiz)
	if len(quiz.Questions) != 1 || len(quiz.Questions[0].Options) != 4 {
		t.Fatalf("generated quiz must have one 4-option question: %+v", quiz)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/training/modules/mod_999/quiz", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown module status = %d", w.Code)
	}
}

func TestRouter_SubmitQuizResult_GradesAnswers(t *testing.T) {
	r := newTestRouter(t)

	// mod_001 has two questions; one right answer grades to 50.
	w := doJSON(t, r, http.MethodPost, "/api/v1/training/results", map[string]any{
		"module_id": "mod_001",
		"answers":   []int{1, 0},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var res struct {
		PartnerID string `json:"partner_id"`
		ModuleID  string `json:"module_id"`
		Score     int    `json:"score"`
	}
	decode(t, w, &res)
	if res.PartnerID != "gp_001" || res.ModuleID != "mod_001" {
		t.Fatalf("unexpected result identity: %+v", res)
	}
	if res.Score != 50 {
		t.Fatalf("graded score = %d, want 50", res.Score)
	}

	// Raw score outside range is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/v1/training/results", map[string]any{
		"module_id": "mod_001",
		"score":     101,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range score status = %d", w.Code)
	}
}

func TestRouter_ConversationAppendAndReadback(t *testing.T) {
	r := newTestRouter(t)
	conv := "chat_lead_001_1700000000000"

	w := doJSON(t, r, http.MethodPost, "/api/v1/conversations/"+conv+"/messages",
		map[string]any{"sender": "user", "text": "Hello!", "timestamp": 1000})
	if w.Code != http.StatusOK {
		t.Fatalf("first append status = %d body=%s", w.Code, w.Body.String())
	}

	// Customer message comes back with reply suggestions even though the
	// generative backend is down.
	w = doJSON(t, r, http.MethodPost, "/api/v1/conversations/"+conv+"/messages",
		map[string]any{"sender": "customer", "text": "What about pricing?", "timestamp": 2000})
	if w.Code != http.StatusOK {
		t.Fatalf("second append status = %d", w.Code)
	}
	var posted struct {
		Message     *domain.ChatMessage `json:"message"`
		Suggestions []string            `json:"suggestions"`
	}
	decode(t, w, &posted)
	if len(posted.Suggestions) == 0 {
		t.Fatalf("expected fallback reply suggestions for customer message")
	}
	for _, s := range posted.Suggestions {
		if s == "" {
			t.Fatalf("empty suggestion in %v", posted.Suggestions)
		}
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/conversations/"+conv+"/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("readback status = %d", w.Code)
	}
	var list struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	decode(t, w, &list)
	if len(list.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(list.Messages))
	}
	if list.Messages[0].Timestamp != 1000 || list.Messages[1].Timestamp != 2000 {
		t.Fatalf("messages out of order: %+v", list.Messages)
	}

	// Invalid sender is the caller's fault.
	w = doJSON(t, r, http.MethodPost, "/api/v1/conversations/"+conv+"/messages",
		map[string]any{"sender": "robot", "text": "hi"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid sender status = %d", w.Code)
	}
}

func TestRouter_AssistEndpoints_FallbacksNeverEmpty(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/assist/outreach", map[string]any{
		"lead_id": "lead_001",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("outreach status = %d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Message string `json:"message"`
	}
	decode(t, w, &out)
	if out.Message == "" {
		t.Fatalf("outreach fallback must not be empty")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/assist/reply", map[string]any{
		"message": "What about pricing?",
		"product": "Health Insurance",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reply status = %d", w.Code)
	}
	var rep struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &rep)
	if len(rep.Suggestions) == 0 {
		t.Fatalf("expected reply suggestions")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/assist/training", map[string]any{
		"topic": "health insurance",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("training status = %d", w.Code)
	}
	var tc struct {
		Content string `json:"content"`
	}
	decode(t, w, &tc)
	if tc.Content == "" {
		t.Fatalf("training fallback must not be empty")
	}

	// Missing payload fields are 400s.
	w = doJSON(t, r, http.MethodPost, "/api/v1/assist/outreach", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("outreach without identity status = %d", w.Code)
	}
}

func TestRouter_InsightsAndPlaybook(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/partners/gp_001/insights", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("insights status = %d", w.Code)
	}
	var ins struct {
		Insights []domain.Insight `json:"insights"`
	}
	decode(t, w, &ins)
	if len(ins.Insights) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(ins.Insights))
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/partners/gp_001/playbook", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("playbook status = %d", w.Code)
	}
	var pb struct {
		Partner   *domain.PartnerProfile `json:"partner"`
		Insights  []domain.Insight       `json:"insights"`
		Narrative string                 `json:"narrative"`
	}
	decode(t, w, &pb)
	if pb.Partner == nil || len(pb.Insights) != 3 || pb.Narrative == "" {
		t.Fatalf("incomplete playbook: %+v", pb)
	}
}

func TestRouter_SupportQueries_RemoteOnlyDegradesGracefully(t *testing.T) {
	r := newTestRouter(t)

	// Reads degrade to empty, never error.
	w := doJSON(t, r, http.MethodGet, "/api/v1/customers/lead_001/queries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("queries status = %d", w.Code)
	}
	var qs struct {
		Queries []domain.CustomerQuery `json:"queries"`
	}
	decode(t, w, &qs)
	if len(qs.Queries) != 0 {
		t.Fatalf("expected empty query list, got %+v", qs.Queries)
	}

	// Writes are dropped with 202 while the store is down.
	w = doJSON(t, r, http.MethodPost, "/api/v1/customers/lead_001/queries",
		map[string]any{"question": "Where is my policy document?"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("create query status = %d", w.Code)
	}

	// Resolution is fire-and-forget.
	w = doJSON(t, r, http.MethodPost, "/api/v1/queries/q1/resolve",
		map[string]any{"response": "It was emailed today."})
	if w.Code != http.StatusNoContent {
		t.Fatalf("resolve status = %d", w.Code)
	}
}

func doJSONKeyed(t *testing.T, r *gin.Engine, method, path, key string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// A keyed retry during a store outage must replay the first append out of the
// fallback log instead of writing a second row under the same ID.
func TestRouter_KeyedAppendReplay_FallbackMode(t *testing.T) {
	r := newTestRouter(t)
	conv := "chat_lead_001_1700000000000"
	path := "/api/v1/conversations/" + conv + "/messages"
	body := map[string]any{"sender": "user", "text": "Sharing the premium breakdown now.", "timestamp": 5000}

	w := doJSONKeyed(t, r, http.MethodPost, path, "key-123", body)
	if w.Code != http.StatusOK {
		t.Fatalf("first append status = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("first append must not be marked replayed")
	}

	w = doJSONKeyed(t, r, http.MethodPost, path, "key-123", body)
	if w.Code != http.StatusOK {
		t.Fatalf("retry status = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry must set Idempotency-Replayed")
	}
	var posted struct {
		Message *domain.ChatMessage `json:"message"`
	}
	decode(t, w, &posted)
	if posted.Message == nil || posted.Message.ID != "key-123" || posted.Message.Timestamp != 5000 {
		t.Fatalf("retry did not return the original row: %+v", posted.Message)
	}

	w = doJSON(t, r, http.MethodGet, path, nil)
	var list struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	decode(t, w, &list)
	if len(list.Messages) != 1 {
		t.Fatalf("replayed append duplicated the message: got %d messages, want 1", len(list.Messages))
	}
}

// Same contract against the hosted store: the second POST with the key finds
// the persisted row and the log stays at one message.
func TestRouter_KeyedAppendReplay_RemoteMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:     db,
		Store:  store.New(),
		Remote: services.NewRemote(true),
		Gen:    failingGen{},
	}, testConfig())

	conv := "chat_lead_002_1700000000000"
	path := "/api/v1/conversations/" + conv + "/messages"
	body := map[string]any{"sender": "user", "text": "Policy issued, sending the documents.", "timestamp": 7000}

	w := doJSONKeyed(t, r, http.MethodPost, path, "key-456", body)
	if w.Code != http.StatusOK {
		t.Fatalf("first append status = %d body=%s", w.Code, w.Body.String())
	}

	w = doJSONKeyed(t, r, http.MethodPost, path, "key-456", body)
	if w.Code != http.StatusOK {
		t.Fatalf("retry status = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry must set Idempotency-Replayed")
	}
	var posted struct {
		Message *domain.ChatMessage `json:"message"`
	}
	decode(t, w, &posted)
	if posted.Message == nil || posted.Message.ID != "key-456" {
		t.Fatalf("retry did not return the persisted row: %+v", posted.Message)
	}

	w = doJSON(t, r, http.MethodGet, path, nil)
	var list struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	decode(t, w, &list)
	if len(list.Messages) != 1 {
		t.Fatalf("replayed append duplicated the message: got %d messages, want 1", len(list.Messages))
	}
}
