package hxpage

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PageFactory creates the page served at a mounted path.
type PageFactory func(r *http.Request) (*Page, error)

// Mount serves the pages created by factory at pattern, a http.ServeMux
// pattern such as "/" or "GET /items/{id}".
//
// Panics if pattern is already mounted.
func (a *Application) Mount(pattern string, factory PageFactory) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.mounts[pattern]; exists {
		panic(fmt.Sprintf("hxpage: pattern %q is already mounted", pattern))
	}
	a.mounts[pattern] = factory
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		a.servePage(w, r, factory)
	})
}

// Handler returns the HTTP handler for mounted pages and listener requests.
func (a *Application) Handler() http.Handler {
	return csrf(a.mux)
}

// PageHandler returns a handler serving the pages created by factory, for
// routers other than the application's own.
func (a *Application) PageHandler(factory PageFactory) http.Handler {
	return csrf(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.servePage(w, r, factory)
	}))
}

// ListenerHandler returns a handler serving listener requests at any path.
func (a *Application) ListenerHandler() http.Handler {
	return csrf(http.HandlerFunc(a.serveListener))
}

func csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if !IsHTMX(r) {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// servePage creates a page, stores it in the session and renders it.
func (a *Application) servePage(w http.ResponseWriter, r *http.Request, factory PageFactory) {
	start := time.Now()
	session := a.requestSession(w, r)
	session.reqMu.Lock()
	defer session.reqMu.Unlock()

	p, err := factory(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	session.AddPage(p)
	rc := NewRequestCycle(a, session, p, w, r)
	defer rc.Detach()

	var buf bytes.Buffer
	if err := p.Render(r.Context(), &buf); err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("write page", "path", r.URL.Path, "error", err)
		return
	}
	a.logger.Info("page rendered",
		"path", r.URL.Path,
		"session", session.id,
		"page", p.id,
		"duration", time.Since(start))
}

// serveListener decodes a listener reference, runs the listener and writes
// the components it added to the request cycle as out-of-band swaps.
func (a *Application) serveListener(w http.ResponseWriter, r *http.Request) {
	session, ok := a.cookieSession(r)
	if !ok {
		a.fail(w, r, fmt.Errorf("%w: no session", ErrPageExpired))
		return
	}
	session.reqMu.Lock()
	defer session.reqMu.Unlock()

	encoded := r.FormValue("l")
	if encoded == "" {
		a.fail(w, r, fmt.Errorf("%w: missing listener reference", ErrNotFound))
		return
	}
	var ref ListenerRef
	if err := a.encoder.Decode(encoded, a.settings.SensitiveListeners, &ref); err != nil {
		a.fail(w, r, wrapEncodingError(err))
		return
	}
	p, err := session.Page(ref.PageID)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	rc := NewRequestCycle(a, session, p, w, r)
	defer rc.Detach()

	// auto components are rebuilt so that listeners of resolved tags work
	if err := p.Dequeue(); err != nil {
		// a removed target leaves its tag unbound
		if errors.Is(err, ErrComponentNotFound) {
			if stale := newListenerRequestHandler(p, ref).checkAttached(); stale != nil {
				err = stale
			}
		}
		a.fail(w, r, err)
		return
	}

	h := newListenerRequestHandler(p, ref)
	if err := h.Respond(rc); err != nil {
		a.logger.Warn("listener failed",
			"page", p.id,
			"component", ref.Path,
			"listener", ref.Listener,
			"behavior", ref.Behavior,
			"error", err)
		a.fail(w, r, err)
		return
	}
	if rc.skipped() {
		return
	}

	htmx := rc.HTMX().Request
	if rc.redirect != "" && !htmx {
		http.Redirect(w, r, rc.redirect, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if rc.redirect == "" {
		if err := p.Dequeue(); err != nil {
			a.fail(w, r, err)
			return
		}
		for _, c := range rc.targets {
			if err := c.renderOOB(r.Context(), &buf); err != nil {
				a.fail(w, r, err)
				return
			}
		}
		flashes := append(session.takeFlashes(), rc.flashes...)
		buf.WriteString(RenderFlashesOOB(flashes))
	}

	rc.writeHeaders(w, htmx)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if rc.status > 0 {
		w.WriteHeader(rc.status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("write listener response", "error", err)
		return
	}
	a.logger.Debug("listener invoked",
		"page", p.id,
		"component", ref.Path,
		"targets", len(rc.targets))
}

// requestSession returns the session of the request's cookie, creating a
// session and setting the cookie when there is none.
func (a *Application) requestSession(w http.ResponseWriter, r *http.Request) *Session {
	if s, ok := a.cookieSession(r); ok {
		return s
	}
	s := a.NewSession()
	http.SetCookie(w, &http.Cookie{
		Name:     a.settings.SessionCookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return s
}

func (a *Application) cookieSession(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(a.settings.SessionCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil, false
	}
	return a.Session(cookie.Value)
}

func (a *Application) fail(w http.ResponseWriter, r *http.Request, err error) {
	if IsConfigError(err) {
		a.logger.Error("component tree does not match markup", "path", r.URL.Path, "error", err)
	}
	a.OnError(w, r, err)
}
