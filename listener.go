package hxpage

import (
	"fmt"
)

// ListenerRequestHandler invokes a listener of a component on a stored page.
type ListenerRequestHandler struct {
	Page *Page
	// Component is the component found at Path, nil if none.
	Component *Component
	Path      string
	// Listener names a component listener when Behavior is negative.
	Listener string
	// Behavior is the index of a listening behavior, -1 for none.
	Behavior int
}

// newListenerRequestHandler looks up the component ref addresses on p.
func newListenerRequestHandler(p *Page, ref ListenerRef) *ListenerRequestHandler {
	return &ListenerRequestHandler{
		Page:      p,
		Component: p.Get(ref.Path),
		Path:      ref.Path,
		Listener:  ref.Listener,
		Behavior:  ref.Behavior,
	}
}

// Respond runs the listener.
//
// A component removed from the page since the listener URL was rendered
// yields a *StaleComponentError. Invisible components, and components inside
// an invisible container, do not accept requests.
func (h *ListenerRequestHandler) Respond(rc *RequestCycle) error {
	if err := h.checkAttached(); err != nil {
		return err
	}
	c := h.Component
	if !canCallListener(c) {
		return fmt.Errorf("%w: %s is not visible", ErrListenerDenied, c.describe())
	}

	if h.Behavior >= 0 {
		if h.Behavior >= len(c.behaviors) {
			return fmt.Errorf("%w: index %d on %s", ErrBehaviorNotFound, h.Behavior, c.describe())
		}
		lb, ok := c.behaviors[h.Behavior].(ListenerBehavior)
		if !ok {
			return fmt.Errorf("%w: %T on %s does not listen", ErrBehaviorNotFound, c.behaviors[h.Behavior], c.describe())
		}
		return lb.OnListener(c, rc)
	}

	fn, ok := c.listeners[h.Listener]
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrListenerNotFound, h.Listener, c.describe())
	}
	return fn(rc)
}

// checkAttached returns a *StaleComponentError if the component is no longer
// part of the page.
func (h *ListenerRequestHandler) checkAttached() error {
	if h.Component == nil || h.Component.Page() != h.Page {
		return &StaleComponentError{PageID: h.Page.id, Path: h.Path}
	}
	return nil
}

func canCallListener(c *Component) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if !cur.visible {
			return false
		}
	}
	return true
}
