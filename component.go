package hxpage

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage/lib/markup"
)

// Kind is the kind of a component. The kind decides how a component binds
// markup, renders and takes part in queueing.
type Kind int

const (
	// KindComponent is a leaf. It renders a label text, a templ body, or its
	// markup body unchanged.
	KindComponent Kind = iota
	// KindContainer owns children bound to tags inside its markup body.
	KindContainer
	// KindPage is the root of a component tree. It owns the page markup.
	KindPage
	// KindPanel is a container that renders its own associated markup in
	// place of its tag body.
	KindPanel
	// KindBorder is a container with associated markup that wraps its tag
	// body at the <wicket:body> position.
	KindBorder
	// KindBorderBody is the placeholder for <wicket:body>. It is held by its
	// border and never attached as a child.
	KindBorderBody
	// KindHeader renders <head> and <wicket:head> sections.
	KindHeader
	// KindTransparent renders its body with the children of the nearest
	// non-transparent ancestor.
	KindTransparent
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindContainer:
		return "container"
	case KindPage:
		return "page"
	case KindPanel:
		return "panel"
	case KindBorder:
		return "border"
	case KindBorderBody:
		return "border body"
	case KindHeader:
		return "header"
	case KindTransparent:
		return "transparent container"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Visit controls a tree traversal.
type Visit int

const (
	// VisitContinue continues with the children of the visited component.
	VisitContinue Visit = iota
	// VisitDontGoDeeper skips the children of the visited component.
	VisitDontGoDeeper
	// VisitStop ends the traversal.
	VisitStop
)

// ListenerFunc handles a request addressed to a component listener.
type ListenerFunc func(rc *RequestCycle) error

// ComponentOption configures a component at construction.
type ComponentOption func(*Component)

// WithBody renders body in place of the component's markup body.
func WithBody(body templ.Component) ComponentOption {
	return func(c *Component) { c.content = body }
}

// WithEventHandler sets the handler called for every event delivered to the
// component.
func WithEventHandler(fn func(*Event)) ComponentOption {
	return func(c *Component) { c.onEvent = fn }
}

// WithBehaviors attaches behaviors.
func WithBehaviors(behaviors ...Behavior) ComponentOption {
	return func(c *Component) { c.behaviors = append(c.behaviors, behaviors...) }
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) ComponentOption {
	return func(c *Component) { c.visible = visible }
}

// WithOutputMarkupID writes the component's markup id as the id attribute of
// its tag, so that it can be the target of a partial update.
func WithOutputMarkupID() ComponentOption {
	return func(c *Component) { c.outputMarkupID = true }
}

// WithListener registers a named listener.
func WithListener(name string, fn ListenerFunc) ComponentOption {
	return func(c *Component) { c.Listen(name, fn) }
}

// Component is a node of a page's component tree.
//
// A component is bound to a markup tag by its id: the tag
// <span wicket:id="name"> inside the markup of the component's parent.
// Containers own their children exclusively; a component has at most one
// parent at a time.
//
//	page := hxpage.NewPage(markup.MustParse(`<h1 wicket:id="title"></h1>`))
//	page.MustAdd(hxpage.NewLabel("title", "Hello"))
//
// Instead of building the tree to match the markup, children may be queued on
// any ancestor. They are moved into place when the page is rendered:
//
//	page.Queue(hxpage.NewContainer("list"), hxpage.NewLabel("item", "one"))
type Component struct {
	id       string
	kind     Kind
	parent   *Component
	children []*Component

	queue    []*Component
	queuedIn *Component

	// associated markup of pages, panels and borders
	markup *markup.Markup
	// tag and fragment the component was bound to by the last markup walk
	tag      *markup.ComponentTag
	fragment *markup.Markup
	// <wicket:body> placeholder of a border
	body *Component

	text    string
	hasText bool
	content templ.Component

	onEvent   func(*Event)
	behaviors []Behavior
	listeners map[string]ListenerFunc

	visible        bool
	outputMarkupID bool
	auto           bool

	// set on the root component of a page
	page *Page
}

func newComponent(id string, kind Kind, opts []ComponentOption) *Component {
	c := &Component{id: id, kind: kind, visible: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewComponent creates a leaf component.
func NewComponent(id string, opts ...ComponentOption) *Component {
	return newComponent(id, KindComponent, opts)
}

// NewLabel creates a leaf component that renders text, HTML escaped, as its
// body.
func NewLabel(id, text string, opts ...ComponentOption) *Component {
	c := newComponent(id, KindComponent, opts)
	c.SetText(text)
	return c
}

// NewContainer creates a container whose children are bound to the tags in
// its markup body.
func NewContainer(id string, opts ...ComponentOption) *Component {
	return newComponent(id, KindContainer, opts)
}

// NewPanel creates a panel. The panel's markup must contain a
// <wicket:panel> section; it may contain <wicket:head> sections that are
// rendered into the page header.
//
// Panics if m is nil.
func NewPanel(id string, m *markup.Markup, opts ...ComponentOption) *Component {
	if m == nil {
		panic(fmt.Sprintf("hxpage: panel %q has no markup", id))
	}
	c := newComponent(id, KindPanel, opts)
	c.markup = m
	return c
}

// NewBorder creates a border. The border's markup must contain a
// <wicket:border> section with a <wicket:body/> tag marking where the body of
// the border's tag is rendered. Children added to the border are bound to tags
// in either markup.
//
// Panics if m is nil.
func NewBorder(id string, m *markup.Markup, opts ...ComponentOption) *Component {
	if m == nil {
		panic(fmt.Sprintf("hxpage: border %q has no markup", id))
	}
	c := newComponent(id, KindBorder, opts)
	c.markup = m
	c.body = &Component{id: id + "_body", kind: KindBorderBody, parent: c, visible: true}
	return c
}

// ID returns the component id, unique among its siblings.
func (c *Component) ID() string { return c.id }

// Kind returns the component kind.
func (c *Component) Kind() Kind { return c.kind }

// Parent returns the parent container, or nil.
func (c *Component) Parent() *Component { return c.parent }

// IsAuto reports whether the component was created by a resolver while
// walking markup rather than added by application code.
func (c *Component) IsAuto() bool { return c.auto }

// IsContainer reports whether the component can own children.
func (c *Component) IsContainer() bool {
	return c.kind != KindComponent && c.kind != KindBorderBody
}

// Visible reports whether the component renders.
func (c *Component) Visible() bool { return c.visible }

// SetVisible sets whether the component renders.
func (c *Component) SetVisible(visible bool) { c.visible = visible }

// Text returns the label text.
func (c *Component) Text() string { return c.text }

// SetText sets the text rendered as the component body.
func (c *Component) SetText(text string) {
	c.text = text
	c.hasText = true
}

// Tag returns the markup tag the component was bound to, or nil.
func (c *Component) Tag() *markup.ComponentTag { return c.tag }

// MarkupFragment returns the fragment bounded by the component's tag, or nil.
func (c *Component) MarkupFragment() *markup.Markup { return c.fragment }

// Markup returns the associated markup of a page, panel or border.
func (c *Component) Markup() *markup.Markup { return c.markup }

// Body returns the <wicket:body> placeholder of a border, or nil.
func (c *Component) Body() *Component { return c.body }

// Behaviors returns the attached behaviors.
func (c *Component) Behaviors() []Behavior { return c.behaviors }

// AddBehavior attaches behaviors.
func (c *Component) AddBehavior(behaviors ...Behavior) {
	c.behaviors = append(c.behaviors, behaviors...)
}

// Listen registers a named listener, replacing any listener with that name.
func (c *Component) Listen(name string, fn ListenerFunc) {
	if c.listeners == nil {
		c.listeners = make(map[string]ListenerFunc)
	}
	c.listeners[name] = fn
}

// Add attaches children.
func (c *Component) Add(children ...*Component) error {
	if !c.IsContainer() {
		return fmt.Errorf("%w: %s", ErrNotContainer, c.describe())
	}
	for _, ch := range children {
		if ch.parent != nil || ch.queuedIn != nil {
			return fmt.Errorf("%w: %q", ErrAlreadyAttached, ch.id)
		}
		if c.child(ch.id) != nil {
			return fmt.Errorf("%w: %q in %s", ErrDuplicateID, ch.id, c.describe())
		}
		ch.parent = c
		c.children = append(c.children, ch)
	}
	return nil
}

// MustAdd is like Add but panics on error. It returns c.
func (c *Component) MustAdd(children ...*Component) *Component {
	if err := c.Add(children...); err != nil {
		panic(err.Error())
	}
	return c
}

// Remove detaches a direct child. It reports whether ch was a child of c.
func (c *Component) Remove(ch *Component) bool {
	for i, existing := range c.children {
		if existing == ch {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			ch.parent = nil
			return true
		}
	}
	return false
}

// Children returns the direct children in the order they were attached.
func (c *Component) Children() []*Component {
	out := make([]*Component, len(c.children))
	copy(out, c.children)
	return out
}

// Get returns the descendant at a colon separated path relative to c.
func (c *Component) Get(path string) *Component {
	if path == "" {
		return c
	}
	cur := c
	for _, id := range strings.Split(path, ":") {
		if cur = cur.child(id); cur == nil {
			return nil
		}
	}
	return cur
}

// Contains reports whether ch is a child of c, or a descendant if recursive.
func (c *Component) Contains(ch *Component, recursive bool) bool {
	if ch == nil {
		return false
	}
	if !recursive {
		return ch.parent == c
	}
	for p := ch.parent; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}

// Path returns the colon separated ids from below the tree root down to c,
// such as "c1:c13:c134". The root's path is empty.
func (c *Component) Path() string {
	var ids []string
	for cur := c; cur.parent != nil; cur = cur.parent {
		ids = append(ids, cur.id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return strings.Join(ids, ":")
}

// Page returns the page the component is attached to, or nil.
func (c *Component) Page() *Page {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root.page
}

// MarkupID returns the DOM id of the component: the id attribute of its tag
// if present, otherwise one derived from its path.
func (c *Component) MarkupID() string {
	if c.tag != nil {
		if id, ok := c.tag.Attr("id"); ok && id != "" {
			return id
		}
	}
	path := c.Path()
	if path == "" {
		return "page"
	}
	return "hx-" + strings.NewReplacer(":", "-", "_", "-").Replace(path)
}

// VisitChildren walks the descendants of c in pre-order. It reports whether
// the walk was stopped.
func (c *Component) VisitChildren(fn func(*Component) Visit) bool {
	for _, ch := range c.Children() {
		switch fn(ch) {
		case VisitStop:
			return true
		case VisitDontGoDeeper:
			continue
		}
		if ch.VisitChildren(fn) {
			return true
		}
	}
	return false
}

// VisitParents walks the ancestors of c, innermost first. Both VisitStop and
// VisitDontGoDeeper end the walk.
func (c *Component) VisitParents(fn func(*Component) Visit) {
	for p := c.parent; p != nil; p = p.parent {
		if fn(p) != VisitContinue {
			return
		}
	}
}

// OnEvent delivers an event to the component's handler and to its behaviors
// that handle events.
func (c *Component) OnEvent(e *Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
	for _, b := range c.behaviors {
		if eb, ok := b.(EventBehavior); ok {
			eb.OnEvent(c, e)
		}
	}
}

func (c *Component) sinkKind() SinkKind { return SinkComponent }

func (c *Component) eventComponent() *Component { return c }

func (c *Component) child(id string) *Component {
	for _, ch := range c.children {
		if ch.id == id {
			return ch
		}
	}
	return nil
}

func (c *Component) bind(tag *markup.ComponentTag, fragment *markup.Markup) {
	c.tag = tag
	c.fragment = fragment
}

// owner returns the component whose children are bound to tags in c's body.
func (c *Component) owner() *Component {
	o := c
	for (o.kind == KindTransparent || o.kind == KindHeader) && o.parent != nil {
		o = o.parent
	}
	return o
}

// bodyStream returns a stream over the markup whose top-level tags bind to
// the children of c.
func (c *Component) bodyStream() *markup.Stream {
	switch c.kind {
	case KindPage:
		return markup.NewStream(c.markup)
	case KindPanel:
		return associatedBody(c.markup, "panel")
	case KindBorder:
		return associatedBody(c.markup, "border")
	case KindBorderBody:
		if c.parent != nil && c.parent.fragment != nil {
			return markup.NewStream(c.parent.fragment).Body()
		}
	default:
		if c.fragment != nil {
			return markup.NewStream(c.fragment).Body()
		}
	}
	return markup.NewStream(&markup.Markup{})
}

// associatedBody returns the body of the <wicket:local> section, skipping
// its enclosing tag. Markup without the section is used whole.
func associatedBody(m *markup.Markup, local string) *markup.Stream {
	s := markup.NewStream(m)
	if i := m.FindFramework(local); i >= 0 {
		s.SetPosition(i)
		return s.Body()
	}
	return s
}

// detachAuto removes the auto components below c.
func (c *Component) detachAuto() {
	for _, ch := range c.Children() {
		if ch.auto {
			c.Remove(ch)
			continue
		}
		ch.detachAuto()
	}
}

func (c *Component) describe() string {
	if c.kind == KindPage && c.parent == nil {
		return "page"
	}
	path := c.Path()
	if path == "" {
		path = c.id
	}
	return fmt.Sprintf("%s %q", c.kind, path)
}
