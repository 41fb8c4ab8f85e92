package hxpage

import (
	"log/slog"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Broadcast is the order in which an event travels from its sink.
type Broadcast int

const (
	// Breadth delivers to the application, session and request cycle first,
	// then to the sink component and its descendants in level order.
	Breadth Broadcast = iota + 1
	// Depth delivers to the descendants of the sink component in post-order,
	// then to the sink, the request cycle, the session and the application.
	Depth
	// Bubble delivers to the sink component and its ancestors, then to the
	// request cycle, the session and the application.
	Bubble
)

func (b Broadcast) String() string {
	switch b {
	case Breadth:
		return "breadth"
	case Depth:
		return "depth"
	case Bubble:
		return "bubble"
	}
	return "invalid"
}

// SinkKind identifies the scope an event sink stands for.
type SinkKind int

const (
	SinkOther SinkKind = iota
	SinkApplication
	SinkSession
	SinkRequestCycle
	SinkComponent
)

func (k SinkKind) String() string {
	switch k {
	case SinkApplication:
		return "application"
	case SinkSession:
		return "session"
	case SinkRequestCycle:
		return "request cycle"
	case SinkComponent:
		return "component"
	}
	return "other"
}

// Sink receives events.
type Sink interface {
	OnEvent(e *Event)
}

// scopedSink is implemented by the framework's own sinks.
type scopedSink interface {
	sinkKind() SinkKind
}

// componentSink is implemented by *Component and, through embedding, *Page.
type componentSink interface {
	eventComponent() *Component
}

// KindOf returns the kind of a sink.
func KindOf(s Sink) SinkKind {
	if k, ok := s.(scopedSink); ok {
		return k.sinkKind()
	}
	return SinkOther
}

// Event is a message delivered to the sinks on a broadcast path. A handler
// may stop the delivery or keep it from descending below its component.
type Event struct {
	sink      Sink
	source    *Component
	broadcast Broadcast
	payload   any

	stop    bool
	shallow bool
}

// Sink returns the sink the event was sent to.
func (e *Event) Sink() Sink { return e.sink }

// Source returns the component that sent the event, or nil.
func (e *Event) Source() *Component { return e.source }

// Type returns the broadcast of the event.
func (e *Event) Type() Broadcast { return e.broadcast }

// Payload returns the value sent with the event.
func (e *Event) Payload() any { return e.payload }

// Stop ends the delivery. No further sink receives the event.
func (e *Event) Stop() { e.stop = true }

// DontBroadcastDeeper keeps the event from reaching the children of the
// component handling it. Siblings still receive it.
func (e *Event) DontBroadcastDeeper() { e.shallow = true }

// Stopped reports whether a handler stopped the event.
func (e *Event) Stopped() bool { return e.stop }

// Scope holds the sinks above the component tree for one request. Nil
// members are skipped.
type Scope struct {
	Application *Application
	Session     *Session
	Cycle       *RequestCycle
}

func (sc Scope) application() Sink {
	if sc.Application == nil {
		return nil
	}
	return sc.Application
}

func (sc Scope) session() Sink {
	if sc.Session == nil {
		return nil
	}
	return sc.Session
}

func (sc Scope) cycle() Sink {
	if sc.Cycle == nil {
		return nil
	}
	return sc.Cycle
}

// EventSender delivers events from one source component.
type EventSender struct {
	source *Component
	scope  Scope
	logger *slog.Logger
}

// NewEventSender creates a sender for events originating at source. The
// scope supplies the application, session and request cycle sinks.
func NewEventSender(source *Component, scope Scope) *EventSender {
	logger := slog.Default()
	if scope.Application != nil && scope.Application.logger != nil {
		logger = scope.Application.logger
	}
	return &EventSender{source: source, scope: scope, logger: logger}
}

// Send delivers payload along the path broadcast describes, starting at sink.
//
// Sinks that are neither scopes nor components receive the event directly
// and nothing else does.
func (s *EventSender) Send(sink Sink, broadcast Broadcast, payload any) error {
	if broadcast < Breadth || broadcast > Bubble {
		return ErrInvalidBroadcast
	}
	if isNilSink(sink) {
		return ErrNilSink
	}

	e := &Event{sink: sink, source: s.source, broadcast: broadcast, payload: payload}
	kind := KindOf(sink)
	s.logger.Debug("sending event", "broadcast", broadcast.String(), "sink", kind.String())

	if kind == SinkOther {
		sink.OnEvent(e)
		return nil
	}

	p := s.path(sink, kind)
	switch broadcast {
	case Breadth:
		s.breadth(e, p)
	case Depth:
		s.depth(e, p)
	case Bubble:
		s.bubble(e, p, kind)
	}
	return nil
}

// path holds the scope sinks a send reaches and the root of its descent into
// the component tree. Scopes wider than the sink's own level are nil.
type path struct {
	app, session, cycle Sink
	root                *Component
}

func (s *EventSender) path(sink Sink, kind SinkKind) path {
	var p path
	toApp := kind == SinkApplication
	toSession := toApp || kind == SinkSession
	toCycle := toSession || kind == SinkRequestCycle

	if toApp {
		p.app = s.scope.application()
		if kind == SinkApplication {
			p.app = sink
		}
	}
	if toSession {
		p.session = s.scope.session()
		if kind == SinkSession {
			p.session = sink
		}
	}
	if toCycle {
		p.cycle = s.scope.cycle()
		if kind == SinkRequestCycle {
			p.cycle = sink
		}
	}

	if c, ok := sink.(componentSink); ok {
		p.root = c.eventComponent()
	} else if page := s.page(); page != nil {
		p.root = page.Component
	}
	return p
}

// page returns the page of the source, or the request cycle's page when the
// source is nil or detached.
func (s *EventSender) page() *Page {
	if s.source != nil {
		if page := s.source.Page(); page != nil {
			return page
		}
	}
	if s.scope.Cycle != nil {
		return s.scope.Cycle.Page()
	}
	return nil
}

func (s *EventSender) breadth(e *Event, p path) {
	for _, scope := range []Sink{p.app, p.session, p.cycle} {
		if s.deliver(scope, e) {
			return
		}
	}
	if p.root == nil {
		return
	}
	if s.deliver(p.root, e) {
		return
	}
	e.shallow = false

	q := linkedlistqueue.New()
	for _, ch := range p.root.Children() {
		q.Enqueue(ch)
	}
	for !q.Empty() {
		v, _ := q.Dequeue()
		c := v.(*Component)
		if s.deliver(c, e) {
			return
		}
		if e.shallow {
			e.shallow = false
			continue
		}
		for _, ch := range c.Children() {
			q.Enqueue(ch)
		}
	}
}

func (s *EventSender) depth(e *Event, p path) {
	if p.root != nil {
		if s.postOrder(p.root, e) {
			return
		}
		if s.deliver(p.root, e) {
			return
		}
		e.shallow = false
	}
	for _, scope := range []Sink{p.cycle, p.session, p.app} {
		if s.deliver(scope, e) {
			return
		}
	}
}

// postOrder delivers to the descendants of c, children after their own
// descendants. It reports whether the event was stopped.
func (s *EventSender) postOrder(c *Component, e *Event) bool {
	for _, ch := range c.Children() {
		if s.postOrder(ch, e) {
			return true
		}
		if s.deliver(ch, e) {
			return true
		}
		// the children of ch have already been visited
		e.shallow = false
	}
	return false
}

func (s *EventSender) bubble(e *Event, p path, kind SinkKind) {
	if kind == SinkComponent {
		c := p.root
		if s.deliver(c, e) {
			return
		}
		for a := c.parent; a != nil && !e.shallow; a = a.parent {
			if s.deliver(a, e) {
				return
			}
		}
		e.shallow = false
		p.cycle, p.session, p.app = s.scope.cycle(), s.scope.session(), s.scope.application()
	}
	// scope sinks reach the request cycle out to their own level
	for _, scope := range []Sink{p.cycle, p.session, p.app} {
		if s.deliver(scope, e) {
			return
		}
	}
}

// deliver hands e to sink and reports whether the event has been stopped. A
// nil sink is skipped.
func (s *EventSender) deliver(sink Sink, e *Event) bool {
	if sink == nil {
		return e.stop
	}
	sink.OnEvent(e)
	return e.stop
}

func isNilSink(s Sink) bool {
	switch v := s.(type) {
	case nil:
		return true
	case *Component:
		return v == nil
	case *Page:
		return v == nil || v.Component == nil
	case *Application:
		return v == nil
	case *Session:
		return v == nil
	case *RequestCycle:
		return v == nil
	}
	return false
}
