package hxpage

import (
	"github.com/pthm/hxpage/lib/markup"
)

// Resolver creates or finds the component for a markup tag that no component
// was added or queued for.
//
// Resolve returns nil if the resolver does not handle the tag. The stream is
// positioned at tag; resolvers may read ahead but must restore the position.
type Resolver interface {
	Resolve(container *Component, stream *markup.Stream, tag *markup.ComponentTag) *Component
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(container *Component, stream *markup.Stream, tag *markup.ComponentTag) *Component

// Resolve calls f.
func (f ResolverFunc) Resolve(container *Component, stream *markup.Stream, tag *markup.ComponentTag) *Component {
	return f(container, stream, tag)
}

// HasEqualMarkupResolver returns the direct child already bound to the very
// same tag. Tags are compared by identity, so a tag shared by a markup and
// its fragments resolves to one component.
var HasEqualMarkupResolver Resolver = ResolverFunc(func(c *Component, _ *markup.Stream, tag *markup.ComponentTag) *Component {
	for _, ch := range c.children {
		if ch.tag == tag {
			return ch
		}
	}
	return nil
})

// HeaderResolver resolves <head> and <wicket:head> to header containers.
var HeaderResolver Resolver = ResolverFunc(func(_ *Component, _ *markup.Stream, tag *markup.ComponentTag) *Component {
	if tag.Name == markup.HeaderTag || tag.Is("head") {
		return newComponent(tag.ID, KindHeader, nil)
	}
	return nil
})

// BorderBodyResolver resolves <wicket:body> inside border markup to the
// border's body placeholder.
var BorderBodyResolver Resolver = ResolverFunc(func(c *Component, _ *markup.Stream, tag *markup.ComponentTag) *Component {
	if !tag.Is("body") {
		return nil
	}
	if o := c.owner(); o.kind == KindBorder {
		return o.body
	}
	return nil
})

// TransparentResolver resolves the remaining framework tags without an
// explicit id, such as <wicket:panel> or <wicket:container>, to transparent
// containers.
var TransparentResolver Resolver = ResolverFunc(func(_ *Component, _ *markup.Stream, tag *markup.ComponentTag) *Component {
	if !tag.Framework || !tag.AutoID {
		return nil
	}
	switch tag.LocalName() {
	case "body", "message", "head":
		return nil
	}
	return newComponent(tag.ID, KindTransparent, nil)
})

// MessageResolver resolves <wicket:message key="k"> to a label with the
// application message for k. Without a message the tag body renders
// unchanged.
var MessageResolver Resolver = ResolverFunc(func(c *Component, _ *markup.Stream, tag *markup.ComponentTag) *Component {
	if !tag.Is("message") {
		return nil
	}
	key, _ := tag.Attr("key")
	if text, ok := c.Message(key); ok {
		return NewLabel(tag.ID, text)
	}
	return NewComponent(tag.ID)
})

// DefaultResolvers returns the built-in resolver chain.
func DefaultResolvers() []Resolver {
	return []Resolver{HeaderResolver, BorderBodyResolver, TransparentResolver, MessageResolver}
}

// Message returns the application message for key.
func (c *Component) Message(key string) (string, bool) {
	p := c.Page()
	if p == nil || p.app == nil {
		return "", false
	}
	text, ok := p.app.messages[key]
	return text, ok
}

// ResolveAutoComponents walks the top-level open tags of stream and adds an
// auto component to c for every tag the resolver chain handles. Tags already
// bound to a child are skipped. With no resolvers the default chain is used.
func ResolveAutoComponents(c *Component, stream *markup.Stream, resolvers ...Resolver) error {
	if len(resolvers) == 0 {
		resolvers = DefaultResolvers()
	}
	it := markup.AutoComponentTags(stream)
	for tag := range it.All() {
		if _, err := resolveTag(c, it.Stream(), tag, resolvers); err != nil {
			return err
		}
	}
	return nil
}

// ResolveAssociatedAutoComponents runs ResolveAutoComponents over the
// associated markup of a panel or border: the body of its root section and
// the body of every <wicket:head> section.
func ResolveAssociatedAutoComponents(c *Component, resolvers ...Resolver) error {
	if c.markup == nil {
		return nil
	}
	if err := ResolveAutoComponents(c, c.bodyStream(), resolvers...); err != nil {
		return err
	}
	for _, head := range headSections(c.markup) {
		if err := ResolveAutoComponents(c, markup.NewStream(head).Body(), resolvers...); err != nil {
			return err
		}
	}
	return nil
}

// resolveTag runs the resolver chain for one tag. The result is bound to tag
// and, unless it is a border body, attached to c as an auto component.
func resolveTag(c *Component, s *markup.Stream, tag *markup.ComponentTag, resolvers []Resolver) (*Component, error) {
	if ch := HasEqualMarkupResolver.Resolve(c, s, tag); ch != nil {
		return ch, nil
	}
	for _, r := range resolvers {
		pos := s.Position()
		ch := r.Resolve(c, s, tag)
		s.SetPosition(pos)
		if ch == nil {
			continue
		}
		if ch.kind != KindBorderBody && !c.Contains(ch, false) {
			ch.auto = true
			if err := c.Add(ch); err != nil {
				return nil, err
			}
		}
		ch.bind(tag, s.Fragment())
		return ch, nil
	}
	return nil, nil
}

// headSections returns the <wicket:head> fragments found at the top level of
// m. Everything outside head sections is skipped.
func headSections(m *markup.Markup) []*markup.Markup {
	var heads []*markup.Markup
	it := markup.AutoComponentTags(markup.NewStream(m))
	for tag := range it.All() {
		if tag.Is("head") {
			heads = append(heads, it.Stream().Fragment())
		}
	}
	return heads
}
