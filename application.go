package hxpage

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
)

// Application holds the settings, resolvers and sessions of a set of pages,
// and serves them over HTTP.
type Application struct {
	settings  Settings
	logger    *slog.Logger
	encoder   *Encoder
	resolvers []Resolver
	messages  map[string]string

	mu       sync.RWMutex
	sessions map[string]*Session
	mounts   map[string]PageFactory
	mux      *http.ServeMux

	// EventHandler, if set, receives events delivered to the application.
	EventHandler func(*Event)

	// OnError is called when a request fails.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)

	// OnNewSession, if set, is called for every session the application
	// creates.
	OnNewSession func(*Session)
}

// NewApplication creates an application whose listener references are
// protected with key.
//
// Panics if the key is empty or the logger cannot be built from the settings.
func NewApplication(key []byte, opts ...Option) *Application {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxpage: failed to create encoder: %v", err))
	}

	a := &Application{
		settings: DefaultSettings(),
		encoder:  enc,
		messages: make(map[string]string),
		sessions: make(map[string]*Session),
		mounts:   make(map[string]PageFactory),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		logger, err := NewLogger(os.Stderr, a.settings.Logging)
		if err != nil {
			panic(fmt.Sprintf("hxpage: failed to create logger: %v", err))
		}
		a.logger = logger
	}

	// Default error handler
	a.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case IsNotFound(err):
			http.Error(w, "Not found", http.StatusNotFound)
		case IsDecryptionError(err):
			http.Error(w, "Bad request", http.StatusBadRequest)
		case IsExpired(err):
			http.Error(w, "Page expired", http.StatusGone)
		case errors.Is(err, ErrListenerDenied):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	a.mux.HandleFunc(a.settings.ComponentPath, a.serveListener)
	return a
}

// Settings returns the application settings.
func (a *Application) Settings() Settings { return a.settings }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Encoder returns the encoder protecting listener references.
func (a *Application) Encoder() *Encoder { return a.encoder }

// Resolvers returns the resolver chain: the built-in resolvers followed by
// those added with WithResolver or AddResolver.
func (a *Application) Resolvers() []Resolver {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append(DefaultResolvers(), a.resolvers...)
}

// AddResolver appends a resolver to the chain.
func (a *Application) AddResolver(r Resolver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resolvers = append(a.resolvers, r)
}

// NewSession creates and stores a session.
func (a *Application) NewSession() *Session {
	s := newSession(a)
	a.mu.Lock()
	a.sessions[s.id] = s
	a.mu.Unlock()
	if a.OnNewSession != nil {
		a.OnNewSession(s)
	}
	a.logger.Debug("session created", "session", s.id)
	return s
}

// Session returns the session with id.
func (a *Application) Session(id string) (*Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[id]
	return s, ok
}

// InvalidateSession drops the session with id and all of its pages.
func (a *Application) InvalidateSession(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, id)
}

// OnEvent delivers an event to the application's handler.
func (a *Application) OnEvent(e *Event) {
	if a.EventHandler != nil {
		a.EventHandler(e)
	}
}

func (a *Application) sinkKind() SinkKind { return SinkApplication }
