package services

import (
	"context"
	"errors"
	"testing"

	"github.com/groweasy/groweasy-backend/internal/domain"
	"github.com/groweasy/groweasy-backend/internal/store"
)

func seededStore() *store.Store {
	s := store.New()
	s.Load(store.SeedDataset())
	return s
}

// fallbackOnly wires a service set against a closed gate and no database,
// which is the deployment shape every read must survive.
func fallbackOnly() (*store.Store, *Remote) {
	return seededStore(), NewRemote(false)
}

func TestRemote_Gate(t *testing.T) {
	r := NewRemote(false)
	if r.Available() {
		t.Fatalf("gate should start closed")
	}
	r.SetAvailable(true)
	if !r.Available() {
		t.Fatalf("gate should be open after SetAvailable(true)")
	}

	var nilGate *Remote
	if nilGate.Available() {
		t.Fatalf("nil gate must read as unavailable")
	}
}

func TestReadThrough_RemoteErrorDegradesToFallback(t *testing.T) {
	gate := NewRemote(true)
	v, ok := readThrough(gate, "test.op",
		func() (string, error) { return "", errors.New("boom") },
		func() (string, bool) { return "fallback", true },
	)
	if !ok || v != "fallback" {
		t.Fatalf("remote error should serve fallback, got %q ok=%v", v, ok)
	}
}

func TestReadThrough_RemoteSuccessWins(t *testing.T) {
	gate := NewRemote(true)
	v, ok := readThrough(gate, "test.op",
		func() (string, error) { return "remote", nil },
		func() (string, bool) { t.Fatal("fallback must not run"); return "", false },
	)
	if !ok || v != "remote" {
		t.Fatalf("got %q ok=%v, want remote", v, ok)
	}
}

func TestReadThrough_ClosedGateSkipsRemote(t *testing.T) {
	gate := NewRemote(false)
	v, ok := readThrough(gate, "test.op",
		func() (string, error) { t.Fatal("remote must not run while gate closed"); return "", nil },
		func() (string, bool) { return "fallback", true },
	)
	if !ok || v != "fallback" {
		t.Fatalf("got %q ok=%v, want fallback", v, ok)
	}
}

func TestSwallowWrite_ClosedGateSkips(t *testing.T) {
	swallowWrite(NewRemote(false), "test.op", func() error {
		t.Fatal("write must not run while gate closed")
		return nil
	})
}

func TestSwallowWrite_ErrorNeverSurfaces(t *testing.T) {
	ran := false
	swallowWrite(NewRemote(true), "test.op", func() error {
		ran = true
		return errors.New("boom")
	})
	if !ran {
		t.Fatalf("write should run while gate open")
	}
}

func TestPartnerService_FallbackProfile(t *testing.T) {
	st, gate := fallbackOnly()
	svc := &PartnerService{Store: st, Remote: gate}

	p, err := svc.Profile(context.Background(), "gp_001")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.MonthlyEarnings != 18750 || p.ConversionRate != 0.32 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := svc.Profile(context.Background(), "gp_404"); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("missing id error = %v, want ErrPartnerNotFound", err)
	}
}

func TestLeadService_TopLeadsDefaultsAndOrder(t *testing.T) {
	st, gate := fallbackOnly()
	svc := &LeadService{Store: st, Remote: gate}

	leads := svc.TopLeads(context.Background(), "gp_001", 0)
	if len(leads) != 5 {
		t.Fatalf("default limit should return all 5 seeded leads, got %d", len(leads))
	}
	if leads[0].Score != 94 || leads[1].Score != 91 || leads[2].Score != 89 {
		t.Fatalf("unexpected order: %d %d %d", leads[0].Score, leads[1].Score, leads[2].Score)
	}

	leads = svc.TopLeads(context.Background(), "gp_001", 2)
	if len(leads) != 2 {
		t.Fatalf("limit=2 returned %d", len(leads))
	}
}

func TestLeadService_UpdateStatus(t *testing.T) {
	_, gate := fallbackOnly()
	svc := &LeadService{Remote: gate}

	for _, status := range []string{
		domain.LeadStatusHot, domain.LeadStatusWarm, domain.LeadStatusCold, domain.LeadStatusContacted,
	} {
		if err := svc.UpdateStatus(context.Background(), "lead_001", status, ""); err != nil {
			t.Fatalf("UpdateStatus(%q): %v", status, err)
		}
	}

	if err := svc.UpdateStatus(context.Background(), "lead_001", "bogus", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bogus status error = %v, want ErrInvalidStatus", err)
	}
}

func TestLearningService_ModulesAndSearch(t *testing.T) {
	st, gate := fallbackOnly()
	svc := &LearningService{Store: st, Remote: gate}

	mods := svc.Modules(context.Background(), "gp_001")
	if len(mods) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(mods))
	}

	hits := svc.SearchModules(context.Background(), "gp_001", "health insurance")
	if len(hits) == 0 || hits[0].ID != "mod_002" {
		t.Fatalf("search should rank mod_002 first, got %+v", hits)
	}

	if hits := svc.SearchModules(context.Background(), "gp_001", ""); len(hits) != 0 {
		t.Fatalf("empty query should return no hits, got %d", len(hits))
	}

	if _, err := svc.Module(context.Background(), "mod_999"); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("missing module error = %v, want ErrModuleNotFound", err)
	}
}

func TestLearningService_SaveQuizResultValidation(t *testing.T) {
	_, gate := fallbackOnly()
	svc := &LearningService{Remote: gate}

	if err := svc.SaveQuizResult(context.Background(), "gp_001", "mod_001", 50); err != nil {
		t.Fatalf("valid score: %v", err)
	}
	for _, bad := range []int{-1, 101} {
		if err := svc.SaveQuizResult(context.Background(), "gp_001", "mod_001", bad); !errors.Is(err, ErrInvalidScore) {
			t.Fatalf("score %d error = %v, want ErrInvalidScore", bad, err)
		}
	}
}

func TestGrade(t *testing.T) {
	m := domain.TrainingModule{Questions: domain.QuestionList{
		{Correct: 1}, {Correct: 0}, {Correct: 3},
	}}

	cases := []struct {
		name    string
		answers []int
		want    int
	}{
		{"all correct", []int{1, 0, 3}, 100},
		{"one of three", []int{1, 2, 2}, 33},
		{"two of three", []int{1, 0, 2}, 67},
		{"none", []int{0, 1, 0}, 0},
		{"short answers count missing as wrong", []int{1}, 33},
		{"extra answers ignored", []int{1, 0, 3, 2, 2}, 100},
		{"empty", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Grade(m, tc.answers); got != tc.want {
				t.Fatalf("Grade = %d, want %d", got, tc.want)
			}
		})
	}

	if got := Grade(domain.TrainingModule{}, []int{1}); got != 0 {
		t.Fatalf("module without questions should grade 0, got %d", got)
	}
}

func TestChatService_AppendValidationAndFallback(t *testing.T) {
	st, gate := fallbackOnly()
	svc := &ChatService{Store: st, Remote: gate}
	ctx := context.Background()
	conv := NewConversationID("lead_001")

	if _, err := svc.Append(ctx, conv, domain.SenderUser, "   ", 0); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank text error = %v, want ErrEmptyMessage", err)
	}
	if _, err := svc.Append(ctx, conv, "robot", "hi", 0); !errors.Is(err, ErrInvalidSender) {
		t.Fatalf("bad sender error = %v, want ErrInvalidSender", err)
	}

	m1, err := svc.Append(ctx, conv, domain.SenderUser, "Hello!", 1000)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if m1.ID == "" {
		t.Fatalf("append should assign an ID")
	}
	if _, err := svc.Append(ctx, conv, domain.SenderCustomer, "Tell me more.", 2000); err != nil {
		t.Fatalf("append: %v", err)
	}

	// With the gate closed the messages land in the fallback log and read
	// back in timestamp order.
	msgs := svc.Conversation(ctx, conv)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Timestamp != 1000 || msgs[1].Timestamp != 2000 {
		t.Fatalf("messages out of order: %+v", msgs)
	}

	// Zero timestamp gets stamped.
	m3, err := svc.Append(ctx, conv, domain.SenderAI, "Here are the details.", 0)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if m3.Timestamp == 0 {
		t.Fatalf("zero timestamp should be stamped")
	}
}

func TestChatService_AppendWithID(t *testing.T) {
	st, gate := fallbackOnly()
	svc := &ChatService{Store: st, Remote: gate}

	m, err := svc.AppendWithID(context.Background(), "idem-key-1", "chat_x_1", domain.SenderUser, "hi", 1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if m.ID != "idem-key-1" {
		t.Fatalf("caller-chosen ID not honored: %q", m.ID)
	}
}

func TestSupportService_ClosedGate(t *testing.T) {
	gate := NewRemote(false)
	svc := &SupportService{Remote: gate}
	ctx := context.Background()

	if got := svc.QueriesFor(ctx, "cust_1"); len(got) != 0 {
		t.Fatalf("closed gate should yield empty list, got %d", len(got))
	}
	if q := svc.Open(ctx, "cust_1", "Where is my policy?", "documentation", "medium"); q != nil {
		t.Fatalf("closed gate open should return nil, got %+v", q)
	}
	// Resolve is a no-op but must not panic.
	svc.Resolve(ctx, "q1", "It was emailed today.")
}

func TestSeeder_InitializeIdempotent(t *testing.T) {
	st := store.New()
	s := &Seeder{Store: st, Remote: NewRemote(false)}

	s.Initialize(context.Background())
	partners, leads := st.PartnerCount(), st.LeadCount()
	if partners == 0 || leads == 0 {
		t.Fatalf("seed produced empty store")
	}

	s.Initialize(context.Background())
	if st.PartnerCount() != partners || st.LeadCount() != leads {
		t.Fatalf("re-initialize changed counts: %d/%d -> %d/%d",
			partners, leads, st.PartnerCount(), st.LeadCount())
	}
}
