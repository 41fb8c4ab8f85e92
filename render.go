package hxpage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage/lib/markup"
)

// renderer writes markup with the components bound to its tags.
type renderer struct {
	page     *Page
	settings Settings
	logger   *slog.Logger
	// component rendered as an out-of-band swap
	oob *Component
}

func newRenderer(p *Page) *renderer {
	return &renderer{page: p, settings: p.settings(), logger: p.logger()}
}

func (r *renderer) renderPage(ctx context.Context, w io.Writer) error {
	return r.renderBody(ctx, w, r.page.Component, r.page.bodyStream())
}

// renderBody copies raw markup and renders the children of owner bound to
// the top-level tags of s.
func (r *renderer) renderBody(ctx context.Context, w io.Writer, owner *Component, s *markup.Stream) error {
	for s.HasMore() {
		switch el := s.Get().(type) {
		case *markup.Raw:
			if _, err := io.WriteString(w, el.Text); err != nil {
				return err
			}
			s.Next()
		case *markup.ComponentTag:
			if el.IsClose() {
				s.Next()
				continue
			}
			ch := boundChild(owner, el)
			if ch == nil {
				return fmt.Errorf("%w: %q in %s (line %d)", ErrComponentNotFound, el.ID, owner.describe(), el.Line)
			}
			frag := s.Fragment()
			s.SkipComponent()
			if err := r.renderComponent(ctx, w, ch, frag); err != nil {
				return err
			}
		}
	}
	return nil
}

func boundChild(owner *Component, tag *markup.ComponentTag) *Component {
	if ch := HasEqualMarkupResolver.Resolve(owner, nil, tag); ch != nil {
		return ch
	}
	if owner.body != nil && owner.body.tag == tag {
		return owner.body
	}
	return nil
}

func (r *renderer) renderComponent(ctx context.Context, w io.Writer, c *Component, frag *markup.Markup) error {
	tag := frag.Tag(0)
	mt := tag.Mutable()
	if !c.visible {
		if r.oob != c {
			return nil
		}
		// placeholder the component can be swapped back into
		mt = &markup.MutableTag{Name: tag.Name, Type: markup.Open}
		mt.Set("id", c.MarkupID())
		mt.Set("hx-swap-oob", "true")
		mt.Set("hidden", "")
		if _, err := mt.WriteTo(w); err != nil {
			return err
		}
		return mt.WriteClose(w)
	}

	for _, b := range c.behaviors {
		b.OnComponentTag(c, mt)
	}
	if c.outputMarkupID || r.oob == c {
		mt.Set("id", c.MarkupID())
	}
	if r.oob == c {
		mt.Set("hx-swap-oob", "true")
	}
	if r.settings.StripFrameworkTags {
		mt.Remove(markup.IDAttr)
	}

	open := tag.IsOpen() || (producesBody(c) && !markup.IsVoid(tag.Name))
	if open {
		mt.Type = markup.Open
	}
	write := !(r.settings.StripFrameworkTags && isFrameworkTag(tag))
	if write {
		if _, err := mt.WriteTo(w); err != nil {
			return err
		}
	}
	if !open {
		return nil
	}
	if err := r.renderContent(ctx, w, c, frag); err != nil {
		return err
	}
	if write {
		return mt.WriteClose(w)
	}
	return nil
}

// producesBody reports whether c renders a body of its own, even for an
// open-close tag.
func producesBody(c *Component) bool {
	switch c.kind {
	case KindPanel, KindBorder, KindBorderBody:
		return true
	}
	return c.content != nil || c.hasText
}

func isFrameworkTag(tag *markup.ComponentTag) bool {
	return strings.HasPrefix(tag.Name, markup.Namespace+":")
}

func (r *renderer) renderContent(ctx context.Context, w io.Writer, c *Component, frag *markup.Markup) error {
	body := markup.NewStream(frag).Body()
	switch c.kind {
	case KindComponent:
		switch {
		case c.content != nil:
			return c.content.Render(ctx, w)
		case c.hasText:
			_, err := io.WriteString(w, templ.EscapeString(c.text))
			return err
		}
		_, err := io.WriteString(w, body.Markup().String())
		return err
	case KindTransparent:
		return r.renderBody(ctx, w, c.owner(), body)
	case KindHeader:
		if err := r.renderBody(ctx, w, c.owner(), body); err != nil {
			return err
		}
		if frag.Tag(0).Name == markup.HeaderTag {
			return r.renderHeadContributions(ctx, w)
		}
		return nil
	case KindPanel:
		return r.renderAssociated(ctx, w, c, "panel")
	case KindBorder:
		return r.renderAssociated(ctx, w, c, "border")
	case KindBorderBody:
		return r.renderBody(ctx, w, c.parent, c.bodyStream())
	}
	if c.content != nil {
		return c.content.Render(ctx, w)
	}
	return r.renderBody(ctx, w, c, body)
}

// renderAssociated renders the <wicket:local> section of the markup of a
// panel or border.
func (r *renderer) renderAssociated(ctx context.Context, w io.Writer, c *Component, local string) error {
	i := c.markup.FindFramework(local)
	if i < 0 {
		return r.renderBody(ctx, w, c, markup.NewStream(c.markup))
	}
	tag := c.markup.Tag(i)
	write := !r.settings.StripFrameworkTags
	mt := tag.Mutable()
	mt.Type = markup.Open
	if write {
		if _, err := mt.WriteTo(w); err != nil {
			return err
		}
	}
	if err := r.renderBody(ctx, w, c, c.bodyStream()); err != nil {
		return err
	}
	if write {
		return mt.WriteClose(w)
	}
	return nil
}

// renderHeadContributions writes the <wicket:head> sections of the visible
// panels and borders of the page. A markup shared by several components
// contributes once.
func (r *renderer) renderHeadContributions(ctx context.Context, w io.Writer) error {
	seen := make(map[*markup.Markup]bool)
	var err error
	r.page.VisitChildren(func(c *Component) Visit {
		if !c.visible {
			return VisitDontGoDeeper
		}
		if c.markup == nil || seen[c.markup] {
			return VisitContinue
		}
		seen[c.markup] = true
		for _, head := range headSections(c.markup) {
			if err = r.renderBody(ctx, w, c, markup.NewStream(head).Body()); err != nil {
				return VisitStop
			}
		}
		return VisitContinue
	})
	return err
}

// RenderPartial renders c from the markup it was bound to by the last render
// of its page.
func (c *Component) RenderPartial(ctx context.Context, w io.Writer) error {
	p := c.Page()
	if p == nil {
		return fmt.Errorf("%w: %s", ErrComponentRemoved, c.describe())
	}
	if c.fragment == nil {
		return fmt.Errorf("%w: %s", ErrNotRendered, c.describe())
	}
	return newRenderer(p).renderComponent(ctx, w, c, c.fragment)
}

// renderOOB renders c as an out-of-band swap replacing the element with its
// markup id.
func (c *Component) renderOOB(ctx context.Context, w io.Writer) error {
	p := c.Page()
	if p == nil {
		return fmt.Errorf("%w: %s", ErrComponentRemoved, c.describe())
	}
	if c.fragment == nil {
		return fmt.Errorf("%w: %s", ErrNotRendered, c.describe())
	}
	r := newRenderer(p)
	r.oob = c
	return r.renderComponent(ctx, w, c, c.fragment)
}
