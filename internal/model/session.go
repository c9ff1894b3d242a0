package model

import (
	"sync"
	"time"
)

// QueryResult is the last answer rendered for a session.
type QueryResult struct {
	Question   string
	Response   *QueryResponse
	Err        string
	FromSample bool
}

// Session carries per-browser state between interactions. The API key lives
// in process memory only.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	apiKey        string
	pendingSample string
	lastResult    *QueryResult
}

func NewSession(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now()}
}

func (s *Session) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

func (s *Session) HasAPIKey() bool {
	return s.APIKey() != ""
}

func (s *Session) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

// ClearAPIKey forgets the key and everything answered with it.
func (s *Session) ClearAPIKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = ""
	s.pendingSample = ""
	s.lastResult = nil
}

func (s *Session) SetPendingSample(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingSample = q
}

// TakePendingSample returns the pending sample question and clears it.
func (s *Session) TakePendingSample() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.pendingSample
	s.pendingSample = ""
	return q, q != ""
}

func (s *Session) SetLastResult(r *QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = r
}

func (s *Session) LastResult() *QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}
