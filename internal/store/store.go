// Package store implements the in-memory fallback dataset served when the
// hosted database is unavailable or unconfigured. The store holds whole
// records keyed by ID and only ever mutates via whole-record replace, so a
// reader never observes a partially updated entity.
//
// A Store is an explicit, dependency-injected instance (not a package-level
// singleton) so tests can run in isolation with independent datasets. All
// methods are safe for concurrent use.
package store

import (
	"sort"
	"sync"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// Store is the in-memory fallback dataset. The zero value is not usable;
// construct with New.
type Store struct {
	mu       sync.RWMutex
	partners map[string]domain.PartnerProfile
	leads    map[string]domain.Lead
	modules  map[string]domain.TrainingModule
	messages map[string][]domain.ChatMessage // keyed by conversation ID
	msgIndex map[string]domain.ChatMessage   // keyed by message ID, for replay lookups
	results  []domain.QuizResult
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		partners: make(map[string]domain.PartnerProfile),
		leads:    make(map[string]domain.Lead),
		modules:  make(map[string]domain.TrainingModule),
		messages: make(map[string][]domain.ChatMessage),
		msgIndex: make(map[string]domain.ChatMessage),
	}
}

// PutPartner inserts or replaces a partner profile by ID.
func (s *Store) PutPartner(p domain.PartnerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[p.ID] = p
}

// Partner returns the profile for id, reporting whether it exists.
func (s *Store) Partner(id string) (domain.PartnerProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partners[id]
	return p, ok
}

// PartnerCount returns the number of seeded partner profiles.
func (s *Store) PartnerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partners)
}

// PutLead inserts or replaces a lead by ID.
func (s *Store) PutLead(l domain.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = l
}

// Lead returns the lead for id, reporting whether it exists.
func (s *Store) Lead(id string) (domain.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	return l, ok
}

// LeadCount returns the number of seeded leads.
func (s *Store) LeadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

// TopLeads returns the partner's leads ordered by score descending,
// truncated to limit (limit <= 0 means no cap). Ties break by most recent
// contact first, then ID ascending, matching the database read path.
func (s *Store) TopLeads(partnerID string, limit int) []domain.Lead {
	s.mu.RLock()
	out := make([]domain.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		if l.PartnerID == partnerID {
			out = append(out, l)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].LastContactAt.Equal(out[j].LastContactAt) {
			return out[i].LastContactAt.After(out[j].LastContactAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PutModule inserts or replaces a training module by ID.
func (s *Store) PutModule(m domain.TrainingModule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID] = m
}

// Module returns the module for id, reporting whether it exists.
func (s *Store) Module(id string) (domain.TrainingModule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[id]
	return m, ok
}

// Modules returns the shared curriculum ordered by module ID.
func (s *Store) Modules() []domain.TrainingModule {
	s.mu.RLock()
	out := make([]domain.TrainingModule, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AppendMessage adds a chat message to its conversation log. Appending an ID
// that already exists in the same conversation replaces the earlier row in
// place instead of growing the log, so keyed retries stay idempotent.
func (s *Store) AppendMessage(m domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.msgIndex[m.ID]; ok && prev.ConversationID == m.ConversationID {
		msgs := s.messages[m.ConversationID]
		for i := range msgs {
			if msgs[i].ID == m.ID {
				msgs[i] = m
				break
			}
		}
	} else {
		s.messages[m.ConversationID] = append(s.messages[m.ConversationID], m)
	}
	s.msgIndex[m.ID] = m
}

// Message returns the message with the given ID, reporting whether it
// exists. Serves the idempotency replay check when the hosted store is
// unreachable.
func (s *Store) Message(id string) (domain.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.msgIndex[id]
	return m, ok
}

// Conversation returns the messages of a conversation ordered by timestamp
// ascending, then ID ascending.
func (s *Store) Conversation(conversationID string) []domain.ChatMessage {
	s.mu.RLock()
	src := s.messages[conversationID]
	out := make([]domain.ChatMessage, len(src))
	copy(out, src)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AppendQuizResult records a quiz attempt. Append-only.
func (s *Store) AppendQuizResult(r domain.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// QuizResults returns all recorded attempts for a partner, in append order.
func (s *Store) QuizResults(partnerID string) []domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, 0, len(s.results))
	for _, r := range s.results {
		if r.PartnerID == partnerID {
			out = append(out, r)
		}
	}
	return out
}
