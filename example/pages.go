package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/hxpage"
	"github.com/pthm/hxpage/lib/markup"
)

//go:embed markup
var markupFS embed.FS

func mustMarkup(name string) *markup.Markup {
	f, err := markupFS.Open("markup/" + name)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	m, err := markup.ParseReader(f)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	return m
}

var (
	layoutMarkup = mustMarkup("layout.html")
	homeMarkup   = mustMarkup("home.html")
	detailMarkup = mustMarkup("detail.html")
	todoMarkup   = mustMarkup("todo.html")
)

// todosChanged is broadcast to the page after a listener changes the store.
type todosChanged struct {
	rc *hxpage.RequestCycle
}

func changed(rc *hxpage.RequestCycle, source *hxpage.Component) error {
	return rc.Send(source, rc.Page(), hxpage.Breadth, todosChanged{rc: rc})
}

// newLayout creates the border shared by all pages. Its stats label follows
// every change to the store.
func newLayout(store *Store) *hxpage.Component {
	var stats *hxpage.Component
	stats = hxpage.NewLabel("stats", summary(store.Stats()),
		hxpage.WithOutputMarkupID(),
		hxpage.WithEventHandler(func(e *hxpage.Event) {
			if ev, ok := e.Payload().(todosChanged); ok {
				stats.SetText(summary(store.Stats()))
				ev.rc.Add(stats)
			}
		}))
	layout := hxpage.NewBorder("layout", layoutMarkup)
	layout.MustAdd(stats)
	return layout
}

func summary(s Stats) string {
	return fmt.Sprintf("%d of %d done", s.Completed, s.Total)
}

func homePage(store *Store) hxpage.PageFactory {
	return func(r *http.Request) (*hxpage.Page, error) {
		page := hxpage.NewPage(homeMarkup)
		layout := newLayout(store)

		var list *hxpage.Component
		list = hxpage.NewContainer("list",
			hxpage.WithOutputMarkupID(),
			hxpage.WithBody(todoList(store, func() *hxpage.Component { return list })),
			hxpage.WithListener("toggle", func(rc *hxpage.RequestCycle) error {
				if !store.Toggle(rc.Request.FormValue("id")) {
					return hxpage.ErrNotFound
				}
				rc.Add(list)
				return changed(rc, list)
			}),
			hxpage.WithListener("delete", func(rc *hxpage.RequestCycle) error {
				if !store.Delete(rc.Request.FormValue("id")) {
					return hxpage.ErrNotFound
				}
				rc.Add(list)
				rc.Flash(hxpage.FlashSuccess, "Todo deleted!")
				return changed(rc, list)
			}))

		add := hxpage.NewComponent("add", hxpage.WithBehaviors(
			hxpage.NewAjaxEventBehavior("submit", func(rc *hxpage.RequestCycle) error {
				title := strings.TrimSpace(rc.Request.FormValue("title"))
				if title == "" {
					rc.Flash(hxpage.FlashWarning, "A todo needs a title")
					return nil
				}
				store.Add(title, "")
				rc.Add(list)
				rc.Flash(hxpage.FlashSuccess, "Todo added!")
				rc.Trigger("todo:added")
				return changed(rc, list)
			})))

		// the border's children are placed when the page is dequeued
		if err := layout.Queue(add, list); err != nil {
			return nil, err
		}
		if err := page.Add(layout); err != nil {
			return nil, err
		}
		return page, nil
	}
}

// todoList renders the items of the store. Its buttons call the listeners of
// the list component returned by list.
func todoList(store *Store, list func() *hxpage.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		toggle, err := list().ListenerURL("toggle")
		if err != nil {
			return err
		}
		del, err := list().ListenerURL("delete")
		if err != nil {
			return err
		}
		for _, t := range store.List() {
			class, label := "", "Done"
			if t.Status == StatusCompleted {
				class, label = "done", "Undo"
			}
			_, err := fmt.Fprintf(w,
				`<li class="%s"><a href="/todo/%s">%s</a> `+
					`<button hx-get="%s" hx-swap="none">%s</button> `+
					`<button hx-delete="%s" hx-swap="none" hx-confirm="Delete this todo?">Delete</button></li>`,
				class,
				templ.EscapeString(t.ID),
				templ.EscapeString(t.Title),
				templ.EscapeString(toggle+"&id="+t.ID),
				label,
				templ.EscapeString(del+"&id="+t.ID))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func detailPage(store *Store) hxpage.PageFactory {
	return func(r *http.Request) (*hxpage.Page, error) {
		id := r.PathValue("id")
		todo, ok := store.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: todo %q", hxpage.ErrNotFound, id)
		}

		page := hxpage.NewPage(detailMarkup)
		layout := newLayout(store)
		panel := hxpage.NewPanel("todo", todoMarkup)

		status := hxpage.NewLabel("status", string(todo.Status), hxpage.WithOutputMarkupID())
		toggle := hxpage.NewComponent("toggle", hxpage.WithBehaviors(
			hxpage.NewAjaxEventBehavior("click", func(rc *hxpage.RequestCycle) error {
				if !store.Toggle(id) {
					return hxpage.ErrNotFound
				}
				t, _ := store.Get(id)
				status.SetText(string(t.Status))
				rc.Add(status)
				rc.Flash(hxpage.FlashSuccess, "Todo updated!")
				return changed(rc, panel)
			})))

		if err := panel.Queue(
			hxpage.NewLabel("title", todo.Title),
			hxpage.NewLabel("description", todo.Description),
			status,
			toggle,
		); err != nil {
			return nil, err
		}
		if err := layout.Queue(panel); err != nil {
			return nil, err
		}
		if err := page.Add(layout); err != nil {
			return nil, err
		}
		return page, nil
	}
}
