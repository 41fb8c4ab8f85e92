package hxpage

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the pages of one browser session.
//
// Requests of a session are processed one at a time: the handler holds the
// session lock for the duration of a request cycle.
type Session struct {
	id  string
	app *Application

	// serialises request cycles
	reqMu sync.Mutex

	mu      sync.Mutex
	pages   []*Page
	nextID  int
	flashes []Flash

	// EventHandler, if set, receives events delivered to the session.
	EventHandler func(*Event)
}

func newSession(app *Application) *Session {
	return &Session{id: uuid.NewString(), app: app, nextID: 1}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Application returns the application that created the session.
func (s *Session) Application() *Application { return s.app }

// AddPage stores p and assigns its page id. When the session holds more than
// the configured number of pages the oldest one expires.
func (s *Session) AddPage(p *Page) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.id = s.nextID
	p.session = s
	p.app = s.app
	s.nextID++
	s.pages = append(s.pages, p)

	max := DefaultSettings().MaxPages
	if s.app != nil {
		max = s.app.settings.MaxPages
	}
	if len(s.pages) > max {
		expired := s.pages[0]
		expired.session = nil
		s.pages = s.pages[1:]
	}
	return p.id
}

// Page returns the page stored under id.
func (s *Session) Page(id int) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.id == id {
			return p, nil
		}
	}
	return nil, ErrPageExpired
}

// Flash keeps a flash message for the next partial update.
func (s *Session) Flash(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Flash{Level: level, Message: message})
}

// takeFlashes returns and clears the pending flashes.
func (s *Session) takeFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flashes
	s.flashes = nil
	return f
}

// OnEvent delivers an event to the session's handler.
func (s *Session) OnEvent(e *Event) {
	if s.EventHandler != nil {
		s.EventHandler(e)
	}
}

func (s *Session) sinkKind() SinkKind { return SinkSession }
