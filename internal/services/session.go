package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"alfredoptarigan/candilyzer/internal/models"
)

// Session is the per-browser state: the three credentials and whether an
// evaluation is currently streaming.
type Session struct {
	ID string

	mu    sync.Mutex
	creds models.Credentials
	busy  bool
}

func (s *Session) Get(kind models.CredentialKind) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Get(kind)
}

func (s *Session) Set(kind models.CredentialKind, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Set(kind, value)
}

// Apply stores every non-nil field of the update.
func (s *Session) Apply(update models.CredentialsUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if update.ModelAPIKey != nil {
		s.creds.Set(models.CredentialModel, *update.ModelAPIKey)
	}
	if update.GitHubToken != nil {
		s.creds.Set(models.CredentialGitHub, *update.GitHubToken)
	}
	if update.SearchAPIKey != nil {
		s.creds.Set(models.CredentialSearch, *update.SearchAPIKey)
	}
}

// Snapshot returns a copy. A run works only on its snapshot, so later
// edits never reach an evaluation in flight.
func (s *Session) Snapshot() models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

func (s *Session) Status() models.CredentialStatus {
	return s.Snapshot().Status()
}

// TryAcquire marks the session busy. It returns false if it already was.
func (s *Session) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SessionStore keeps sessions in memory only. Idle sessions expire after the
// TTL and the least recently used ones are evicted past capacity.
type SessionStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewSessionStore(capacity int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: expirable.NewLRU[string, *Session](capacity, nil, ttl),
	}
}

func (s *SessionStore) Create() *Session {
	session := &Session{ID: uuid.NewString()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(session.ID, session)
	return session
}

// Get returns the session and refreshes its expiry.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	s.cache.Add(id, session)
	return session, true
}

// GetOrCreate resolves id, creating a fresh session when it is unknown or expired.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if session, ok := s.Get(id); ok {
		return session, false
	}
	return s.Create(), true
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
