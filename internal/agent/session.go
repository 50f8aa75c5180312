package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one scrape conversation, keyed by app, user and id.
type Session struct {
	App     string
	User    string
	ID      string
	Created time.Time
}

type sessionKey struct {
	app  string
	user string
	id   string
}

// SessionService holds sessions in memory for the lifetime of the
// process. Sessions exist only to scope a single run; nothing survives
// a restart.
type SessionService struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[sessionKey]*Session),
	}
}

func (s *SessionService) Create(app, user, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{app: app, user: user, id: id}
	if _, exists := s.sessions[key]; exists {
		return nil, fmt.Errorf("session %q already exists", id)
	}

	session := &Session{
		App:     app,
		User:    user,
		ID:      id,
		Created: time.Now(),
	}
	s.sessions[key] = session
	return session, nil
}

func (s *SessionService) Delete(app, user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{app: app, user: user, id: id}
	if _, exists := s.sessions[key]; !exists {
		return fmt.Errorf("session %q not found", id)
	}
	delete(s.sessions, key)
	return nil
}

// NewSessionID builds a unique, human-scannable session id for a scrape
// of the given subreddit.
func NewSessionID(subreddit string) string {
	return fmt.Sprintf("scrape_%s_%s_%s",
		subreddit,
		time.Now().Format("20060102150405"),
		uuid.NewString()[:8],
	)
}
