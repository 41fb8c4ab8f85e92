package hxpage

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage/lib/markup"
)

// Page is the root of a component tree. It owns the page markup and is the
// unit a session keeps between requests.
type Page struct {
	*Component

	id      int
	app     *Application
	session *Session
}

// NewPage creates a page for m.
//
// Panics if m is nil.
func NewPage(m *markup.Markup, opts ...ComponentOption) *Page {
	if m == nil {
		panic("hxpage: page has no markup")
	}
	p := &Page{Component: newComponent("", KindPage, opts)}
	p.Component.markup = m
	p.Component.page = p
	return p
}

// PageID returns the id the session stores the page under. It is zero until
// the page is added to a session.
func (p *Page) PageID() int { return p.id }

// Application returns the application the page belongs to, or nil.
func (p *Page) Application() *Application { return p.app }

// Session returns the session holding the page, or nil.
func (p *Page) Session() *Session { return p.session }

// Dequeue binds the component tree to the page markup. Queued components are
// moved to the container whose markup holds their tag, and tags without a
// component are resolved to auto components. Render calls Dequeue first.
func (p *Page) Dequeue() error {
	return newDequeuer(p.resolvers(), p.logger()).run(p)
}

// Render dequeues and writes the page.
func (p *Page) Render(ctx context.Context, w io.Writer) error {
	if err := p.Dequeue(); err != nil {
		p.logger().Error("dequeue failed", "page", p.id, "error", err)
		return err
	}
	return newRenderer(p).renderPage(ctx, w)
}

// Templ returns the page as a templ component, for embedding a page in a
// templ layout or writing it with templ helpers.
func (p *Page) Templ() templ.Component {
	return templ.ComponentFunc(p.Render)
}

// String renders the page, returning the error text on failure.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(context.Background(), &buf); err != nil {
		return err.Error()
	}
	return buf.String()
}

// Detach ends the page's request: auto components are removed so that the
// next render resolves them again.
func (p *Page) Detach() {
	p.detachAuto()
}

func (p *Page) resolvers() []Resolver {
	if p.app != nil {
		return p.app.Resolvers()
	}
	return DefaultResolvers()
}

func (p *Page) settings() Settings {
	if p.app != nil {
		return p.app.settings
	}
	return DefaultSettings()
}

func (p *Page) logger() *slog.Logger {
	if p.app != nil {
		return p.app.logger
	}
	return slog.Default()
}
