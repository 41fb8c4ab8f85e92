package hxpage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage/lib/markup"
)

// WireAttrs builds the minimal HTMX attributes for a listener request.
//
// For GET, returns hx-get with the listener reference in the URL query
// string. For POST/PUT/DELETE/PATCH, returns hx-post (etc.) with the
// reference in hx-vals, leaving the URL stable.
//
// All other HTMX attributes (hx-target, hx-swap, hx-trigger, etc.) are
// added by behaviors or written directly in the markup.
func WireAttrs(path, method, encoded string) templ.Attributes {
	attrs := templ.Attributes{}

	if method == http.MethodGet || method == "" {
		url := path
		if encoded != "" {
			url = path + "?l=" + encoded
		}
		attrs["hx-get"] = url
	} else {
		switch method {
		case http.MethodPost:
			attrs["hx-post"] = path
		case http.MethodPut:
			attrs["hx-put"] = path
		case http.MethodPatch:
			attrs["hx-patch"] = path
		case http.MethodDelete:
			attrs["hx-delete"] = path
		}
		if encoded != "" {
			data, _ := json.Marshal(map[string]string{"l": encoded})
			attrs["hx-vals"] = string(data)
		}
	}

	return attrs
}

// ListenerURL returns the URL that invokes the named listener of c. The
// component must be on a page held by a session.
func (c *Component) ListenerURL(name string) (string, error) {
	return c.listenerURL(name, -1, http.MethodGet)
}

// BehaviorURL returns the URL that invokes a listening behavior of c.
func (c *Component) BehaviorURL(b Behavior) (string, error) {
	i := c.behaviorIndex(b)
	if i < 0 {
		return "", fmt.Errorf("%w: %T on %s", ErrBehaviorNotFound, b, c.describe())
	}
	return c.listenerURL("", i, http.MethodGet)
}

// WireListener returns the HTMX attributes that invoke the named listener
// with method, for use in templ bodies:
//
//	<button { attrs... }>Delete</button>
func (c *Component) WireListener(name, method string) (templ.Attributes, error) {
	path, encoded, err := c.listenerRef(name, -1)
	if err != nil {
		return nil, err
	}
	return WireAttrs(path, method, encoded), nil
}

func (c *Component) listenerURL(name string, behavior int, method string) (string, error) {
	path, encoded, err := c.listenerRef(name, behavior)
	if err != nil {
		return "", err
	}
	if method == http.MethodGet {
		return path + "?l=" + encoded, nil
	}
	return path, nil
}

func (c *Component) listenerRef(name string, behavior int) (path, encoded string, err error) {
	p := c.Page()
	if p == nil || p.app == nil || p.session == nil {
		return "", "", fmt.Errorf("%w: %s is not on a stored page", ErrNotFound, c.describe())
	}
	ref := ListenerRef{PageID: p.id, Path: c.Path(), Listener: name, Behavior: behavior}
	encoded, err = p.app.encoder.Encode(ref, p.app.settings.SensitiveListeners)
	if err != nil {
		return "", "", err
	}
	return p.app.settings.ComponentPath, encoded, nil
}

func (c *Component) behaviorIndex(b Behavior) int {
	for i, existing := range c.behaviors {
		if existing == b {
			return i
		}
	}
	return -1
}

// SwapMode is the hx-swap value an AjaxEventBehavior sets on its element.
type SwapMode string

// Swap modes. Only the element that fired the event is swapped; components
// added to the request cycle always replace their own element out of band.
const (
	SwapNone   SwapMode = "none"
	SwapOuter  SwapMode = "outerHTML"
	SwapInner  SwapMode = "innerHTML"
	SwapDelete SwapMode = "delete"
)

// AjaxEventBehavior invokes a handler when a DOM event fires on the
// component's element. The request is sent with HTMX; components added to
// the request cycle are re-rendered as out-of-band swaps.
//
//	button.AddBehavior(hxpage.NewAjaxEventBehavior("click", func(rc *hxpage.RequestCycle) error {
//	    count++
//	    rc.Add(counter)
//	    return nil
//	}))
type AjaxEventBehavior struct {
	// Event is the hx-trigger value, such as "click" or "change".
	Event string
	// Method defaults to POST.
	Method string
	// Swap defaults to SwapNone: updates arrive out of band.
	Swap SwapMode
	// Handler runs when the event fires.
	Handler func(rc *RequestCycle) error
}

// NewAjaxEventBehavior creates a behavior for event.
func NewAjaxEventBehavior(event string, handler func(rc *RequestCycle) error) *AjaxEventBehavior {
	return &AjaxEventBehavior{Event: event, Handler: handler}
}

// OnComponentTag adds the hx-* attributes. Components that are not on a
// stored page render without them.
func (b *AjaxEventBehavior) OnComponentTag(c *Component, tag *markup.MutableTag) {
	path, encoded, err := c.listenerRef("", c.behaviorIndex(b))
	if err != nil {
		return
	}
	method := b.Method
	if method == "" {
		method = http.MethodPost
	}
	attrs := WireAttrs(path, method, encoded)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tag.Set(k, fmt.Sprint(attrs[k]))
	}
	if b.Event != "" {
		tag.Set("hx-trigger", b.Event)
	}
	swap := b.Swap
	if swap == "" {
		swap = SwapNone
	}
	tag.Set("hx-swap", string(swap))
}

// OnListener runs the handler.
func (b *AjaxEventBehavior) OnListener(_ *Component, rc *RequestCycle) error {
	if b.Handler == nil {
		return nil
	}
	return b.Handler(rc)
}
