package hxpage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage/lib/markup"
)

func TestRender_Components(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		build func(p *Page)
		want  string
	}{
		{
			name:  "label is escaped",
			src:   `<p wicket:id="l">placeholder</p>`,
			build: func(p *Page) { p.MustAdd(NewLabel("l", "<b>bold</b>")) },
			want:  `<p>&lt;b&gt;bold&lt;/b&gt;</p>`,
		},
		{
			name:  "open-close tag gets a body",
			src:   `<span wicket:id="l"/>`,
			build: func(p *Page) { p.MustAdd(NewLabel("l", "x")) },
			want:  `<span>x</span>`,
		},
		{
			name: "void tag stays void",
			src:  `<input wicket:id="i" type="text"/>`,
			build: func(p *Page) {
				p.MustAdd(NewComponent("i", WithBehaviors(NewAttributeModifier("value", "v"))))
			},
			want: `<input type="text" value="v"/>`,
		},
		{
			name:  "plain component keeps its body",
			src:   `<div wicket:id="c">static <em>text</em></div>`,
			build: func(p *Page) { p.MustAdd(NewComponent("c")) },
			want:  `<div>static <em>text</em></div>`,
		},
		{
			name: "invisible component renders nothing",
			src:  `<p wicket:id="a"></p><p wicket:id="b"></p>`,
			build: func(p *Page) {
				p.MustAdd(NewLabel("a", "A", WithVisible(false)), NewLabel("b", "B"))
			},
			want: `<p>B</p>`,
		},
		{
			name: "attribute appender",
			src:  `<li wicket:id="i" class="item"></li>`,
			build: func(p *Page) {
				p.MustAdd(NewLabel("i", "x", WithBehaviors(NewAttributeAppender("class", "active", " "))))
			},
			want: `<li class="item active">x</li>`,
		},
		{
			name: "attribute remover",
			src:  `<li wicket:id="i" class="item"></li>`,
			build: func(p *Page) {
				p.MustAdd(NewLabel("i", "x", WithBehaviors(NewAttributeRemover("class"))))
			},
			want: `<li>x</li>`,
		},
		{
			name:  "output markup id",
			src:   `<div wicket:id="c"></div>`,
			build: func(p *Page) { p.MustAdd(NewContainer("c", WithOutputMarkupID())) },
			want:  `<div id="hx-c"></div>`,
		},
		{
			name:  "explicit id wins",
			src:   `<div wicket:id="c" id="main"></div>`,
			build: func(p *Page) { p.MustAdd(NewContainer("c", WithOutputMarkupID())) },
			want:  `<div id="main"></div>`,
		},
		{
			name: "templ body",
			src:  `<section wicket:id="c"><p>replaced</p></section>`,
			build: func(p *Page) {
				p.MustAdd(NewComponent("c", WithBody(templ.Raw(`<p>from templ</p>`))))
			},
			want: `<section><p>from templ</p></section>`,
		},
		{
			name: "nested containers",
			src:  `<ul wicket:id="list"><li wicket:id="a"></li><li wicket:id="b"></li></ul>`,
			build: func(p *Page) {
				p.MustAdd(NewContainer("list").MustAdd(NewLabel("a", "1"), NewLabel("b", "2")))
			},
			want: `<ul><li>1</li><li>2</li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(markup.MustParse(tt.src))
			tt.build(page)
			if got := render(t, page); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_KeepsFrameworkTags(t *testing.T) {
	settings := DefaultSettings()
	settings.StripFrameworkTags = false
	app := newTestApp(t, WithSettings(settings))

	page := NewPage(markup.MustParse(`<wicket:container><span wicket:id="l"></span></wicket:container>`))
	page.MustAdd(NewLabel("l", "x"))
	app.NewSession().AddPage(page)

	want := `<wicket:container><span wicket:id="l">x</span></wicket:container>`
	if got := render(t, page); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRender_Panel(t *testing.T) {
	panelMarkup := markup.MustParse(
		`<wicket:head><style>.card{}</style></wicket:head>` +
			`<wicket:panel><h2 wicket:id="title"></h2></wicket:panel>`)

	page := NewPage(markup.MustParse(
		`<html><head><title>T</title></head><body><div wicket:id="a"></div><div wicket:id="b"></div></body></html>`))
	page.MustAdd(
		NewPanel("a", panelMarkup).MustAdd(NewLabel("title", "First")),
		NewPanel("b", panelMarkup).MustAdd(NewLabel("title", "Second")),
	)

	want := `<html><head><title>T</title><style>.card{}</style></head>` +
		`<body><div><h2>First</h2></div><div><h2>Second</h2></div></body></html>`
	if got := render(t, page); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRender_Border(t *testing.T) {
	borderMarkup := markup.MustParse(
		`<wicket:border><div class="frame"><h3 wicket:id="caption"></h3><wicket:body/></div></wicket:border>`)

	page := NewPage(markup.MustParse(`<section wicket:id="b"><span wicket:id="l"></span></section>`))
	border := NewBorder("b", borderMarkup)
	if err := border.Queue(NewLabel("caption", "Cap"), NewLabel("l", "inside")); err != nil {
		t.Fatal(err)
	}
	page.MustAdd(border)

	want := `<section><div class="frame"><h3>Cap</h3><span>inside</span></div></section>`
	if got := render(t, page); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	if page.Get("b:l") == nil || page.Get("b:caption") == nil {
		t.Error("border children not placed under the border")
	}
}

func TestRenderPartial(t *testing.T) {
	page := NewPage(markup.MustParse(`<div><span wicket:id="count"></span></div>`))
	count := NewLabel("count", "0", WithOutputMarkupID())
	page.MustAdd(count)

	var buf bytes.Buffer
	if err := count.RenderPartial(context.Background(), &buf); !errors.Is(err, ErrNotRendered) {
		t.Fatalf("RenderPartial() before render error = %v, want ErrNotRendered", err)
	}

	render(t, page)
	count.SetText("5")
	buf.Reset()
	if err := count.RenderPartial(context.Background(), &buf); err != nil {
		t.Fatalf("RenderPartial() error = %v", err)
	}
	if got, want := buf.String(), `<span id="hx-count">5</span>`; got != want {
		t.Errorf("RenderPartial() = %q, want %q", got, want)
	}

	page.Remove(count)
	if err := count.RenderPartial(context.Background(), &buf); !errors.Is(err, ErrComponentRemoved) {
		t.Errorf("RenderPartial() after removal error = %v, want ErrComponentRemoved", err)
	}
}

func TestRenderOOB_InvisiblePlaceholder(t *testing.T) {
	page := NewPage(markup.MustParse(`<p wicket:id="msg"></p>`))
	msg := NewLabel("msg", "hi")
	page.MustAdd(msg)
	render(t, page)

	msg.SetVisible(false)
	var buf bytes.Buffer
	if err := msg.renderOOB(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), `<p id="hx-msg" hx-swap-oob="true" hidden=""></p>`; got != want {
		t.Errorf("renderOOB() = %q, want %q", got, want)
	}
}

func TestPage_Templ(t *testing.T) {
	page := NewPage(markup.MustParse(`<b wicket:id="l"></b>`))
	page.MustAdd(NewLabel("l", "x"))

	var buf bytes.Buffer
	if err := page.Templ().Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != `<b>x</b>` {
		t.Errorf("Templ() rendered %q", got)
	}
	if got := page.String(); got != `<b>x</b>` {
		t.Errorf("String() = %q", got)
	}
}
