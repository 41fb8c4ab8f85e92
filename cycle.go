package hxpage

import (
	"log/slog"
	"net/http"
)

// RequestCycle is the scope of one request. Listeners use it to choose the
// components re-rendered by a partial update and to shape the response:
//
//	func(rc *hxpage.RequestCycle) error {
//	    rc.Add(list, counter)
//	    rc.Flash(hxpage.FlashSuccess, "Item saved!")
//	    rc.Trigger("item:saved", map[string]any{"id": id})
//	    return nil
//	}
type RequestCycle struct {
	app     *Application
	session *Session
	page    *Page

	// Request is the request being processed.
	Request *http.Request
	writer  http.ResponseWriter

	targets            []*Component
	flashes            []Flash
	redirect           string
	triggers           map[string]any
	triggerOrder       []string
	triggerAfterSettle string
	headers            http.Header
	status             int

	// EventHandler, if set, receives events delivered to the request cycle.
	EventHandler func(*Event)
}

// NewRequestCycle creates a request cycle. Any of app, session and page may
// be nil outside of request handling, as in tests.
func NewRequestCycle(app *Application, session *Session, page *Page, w http.ResponseWriter, r *http.Request) *RequestCycle {
	return &RequestCycle{
		app:     app,
		session: session,
		page:    page,
		Request: r,
		writer:  w,
		headers: make(http.Header),
	}
}

// Application returns the application.
func (rc *RequestCycle) Application() *Application { return rc.app }

// Session returns the session.
func (rc *RequestCycle) Session() *Session { return rc.session }

// Page returns the page the request addresses.
func (rc *RequestCycle) Page() *Page { return rc.page }

// HTMX returns the HTMX headers of the request.
//
//	if rc.HTMX().TriggerName == "save-draft" {
//	    // Handle draft save
//	}
func (rc *RequestCycle) HTMX() HTMX {
	if rc.Request == nil {
		return HTMX{}
	}
	return ParseHTMX(rc.Request)
}

// ResponseWriter returns the response writer. Listeners that write their
// own response must call Skip.
func (rc *RequestCycle) ResponseWriter() http.ResponseWriter { return rc.writer }

// Logger returns the application logger.
func (rc *RequestCycle) Logger() *slog.Logger {
	if rc.app != nil {
		return rc.app.logger
	}
	return slog.Default()
}

// Scope returns the event scope of the request.
func (rc *RequestCycle) Scope() Scope {
	return Scope{Application: rc.app, Session: rc.session, Cycle: rc}
}

// Send broadcasts an event from source within the request's scope.
func (rc *RequestCycle) Send(source *Component, sink Sink, broadcast Broadcast, payload any) error {
	return NewEventSender(source, rc.Scope()).Send(sink, broadcast, payload)
}

// Add marks components for re-rendering in the response to a partial
// update. Each is sent as an out-of-band swap.
func (rc *RequestCycle) Add(components ...*Component) {
	for _, c := range components {
		if !rc.isTarget(c) {
			rc.targets = append(rc.targets, c)
		}
	}
}

// Targets returns the components marked for re-rendering.
func (rc *RequestCycle) Targets() []*Component { return rc.targets }

func (rc *RequestCycle) isTarget(c *Component) bool {
	for _, t := range rc.targets {
		if t == c {
			return true
		}
	}
	return false
}

// Flash adds a flash message (toast notification) to the response.
//
// Levels typically include "success", "error", "warning", "info" (see
// FlashSuccess, FlashError constants).
func (rc *RequestCycle) Flash(level, message string) {
	rc.flashes = append(rc.flashes, Flash{Level: level, Message: message})
}

// Flashes returns the flash messages added so far.
func (rc *RequestCycle) Flashes() []Flash { return rc.flashes }

// Redirect makes the client navigate to url, via HX-Redirect for HTMX
// requests and a 303 otherwise.
func (rc *RequestCycle) Redirect(url string) { rc.redirect = url }

// Trigger emits a client event via the HX-Trigger header. With data the
// event's detail carries it.
func (rc *RequestCycle) Trigger(event string, data ...map[string]any) {
	if rc.triggers == nil {
		rc.triggers = make(map[string]any)
	}
	if _, ok := rc.triggers[event]; !ok {
		rc.triggerOrder = append(rc.triggerOrder, event)
	}
	if len(data) > 0 && data[0] != nil {
		rc.triggers[event] = data[0]
	} else {
		rc.triggers[event] = nil
	}
}

// PushURL updates the browser URL via the HX-Push-Url header.
func (rc *RequestCycle) PushURL(url string) { rc.Header("HX-Push-Url", url) }

// TriggerAfterSettle emits a client event via HX-Trigger-After-Settle, after
// the swaps of the response have settled.
func (rc *RequestCycle) TriggerAfterSettle(event string) { rc.triggerAfterSettle = event }

// Header sets a response header.
func (rc *RequestCycle) Header(key, value string) { rc.headers.Set(key, value) }

// Status sets the HTTP status code. Zero means 200.
func (rc *RequestCycle) Status(code int) { rc.status = code }

// Skip tells the handler that the listener wrote its own response.
func (rc *RequestCycle) Skip() { rc.status = -1 }

func (rc *RequestCycle) skipped() bool { return rc.status == -1 }

// Detach ends the cycle: the page drops its auto components.
func (rc *RequestCycle) Detach() {
	if rc.page != nil {
		rc.page.Detach()
	}
}

// OnEvent delivers an event to the cycle's handler.
func (rc *RequestCycle) OnEvent(e *Event) {
	if rc.EventHandler != nil {
		rc.EventHandler(e)
	}
}

func (rc *RequestCycle) sinkKind() SinkKind { return SinkRequestCycle }

// writeHeaders applies the response metadata to w.
func (rc *RequestCycle) writeHeaders(w http.ResponseWriter, htmx bool) {
	for k, v := range rc.headers {
		w.Header()[k] = v
	}
	if trigger := BuildTriggerHeader(rc.triggerOrder, rc.triggers); trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}
	if rc.triggerAfterSettle != "" {
		w.Header().Set("HX-Trigger-After-Settle", rc.triggerAfterSettle)
	}
	if rc.redirect != "" && htmx {
		w.Header().Set("HX-Redirect", rc.redirect)
	}
}
