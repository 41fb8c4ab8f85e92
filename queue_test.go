package hxpage

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm/hxpage/lib/markup"
)

func render(t *testing.T, page *Page) string {
	t.Helper()
	result, err := TestRender(page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return result.HTML
}

func TestQueue_DuplicateIDFailsImmediately(t *testing.T) {
	page := NewPage(markup.MustParse(`<p wicket:id="a"></p>`))
	if err := page.Queue(NewLabel("a", "1")); err != nil {
		t.Fatalf("Queue() error = %v", err)
	}

	err := page.Queue(NewLabel("a", "2"))
	var qerr *QueueError
	if !errors.As(err, &qerr) {
		t.Fatalf("Queue() error = %v, want *QueueError", err)
	}
	if qerr.ID != "a" || qerr.Container != "page" {
		t.Errorf("QueueError = %+v", qerr)
	}
	if !errors.Is(err, ErrDuplicateQueueID) {
		t.Error("error does not match ErrDuplicateQueueID")
	}
}

func TestQueue_Errors(t *testing.T) {
	queued := NewLabel("q", "")
	NewContainer("holder").Queue(queued)

	tests := []struct {
		name  string
		queue func() error
		want  error
	}{
		{"leaf container", func() error { return NewLabel("l", "").Queue(NewLabel("x", "")) }, ErrNotContainer},
		{"already queued", func() error { return NewContainer("other").Queue(queued) }, ErrAlreadyAttached},
		{"attached", func() error {
			c := NewLabel("c", "")
			NewContainer("p").MustAdd(c)
			return NewContainer("other").Queue(c)
		}, ErrAlreadyAttached},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.queue(); !errors.Is(err, tt.want) {
				t.Errorf("Queue() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDequeue_FollowsMarkupOrder(t *testing.T) {
	page := NewPage(markup.MustParse(`<p wicket:id="a"></p><p wicket:id="b"></p>`))
	if err := page.Queue(NewLabel("b", "B"), NewLabel("a", "A")); err != nil {
		t.Fatal(err)
	}

	if got, want := render(t, page), `<p>A</p><p>B</p>`; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"a", "b"}, childIDs(page.Component)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if len(page.Queued()) != 0 {
		t.Errorf("queue not drained: %d left", len(page.Queued()))
	}
}

func TestDequeue_NestedContainers(t *testing.T) {
	page := NewPage(markup.MustParse(
		`<div wicket:id="outer"><ul wicket:id="list"><li wicket:id="item"></li></ul><span wicket:id="count"></span></div>`))
	if err := page.Queue(
		NewLabel("item", "one"),
		NewLabel("count", "1"),
		NewContainer("list"),
		NewContainer("outer"),
	); err != nil {
		t.Fatal(err)
	}

	got := render(t, page)
	if want := `<div><ul><li>one</li></ul><span>1</span></div>`; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	if page.Get("outer:list:item") == nil {
		t.Error("item not placed under outer:list")
	}
	if page.Get("outer:count") == nil {
		t.Error("count not placed under outer")
	}
}

func TestDequeue_QueuedOnIntermediateContainer(t *testing.T) {
	page := NewPage(markup.MustParse(`<div wicket:id="c"><span wicket:id="l"></span></div>`))
	c := NewContainer("c")
	page.MustAdd(c)
	if err := page.Queue(NewLabel("l", "x")); err != nil {
		t.Fatal(err)
	}

	if got, want := render(t, page), `<div><span>x</span></div>`; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	if page.Get("c:l") == nil {
		t.Error("label not moved into c")
	}
}

func TestDequeue_AncestorKeepsIDItsMarkupUses(t *testing.T) {
	page := NewPage(markup.MustParse(
		`<div wicket:id="c"><span wicket:id="l"></span></div><span wicket:id="l"></span>`))
	c := NewContainer("c")
	if err := c.Queue(NewLabel("l", "inner")); err != nil {
		t.Fatal(err)
	}
	if err := page.Queue(c, NewLabel("l", "outer")); err != nil {
		t.Fatal(err)
	}

	if got, want := render(t, page), `<div><span>inner</span></div><span>outer</span>`; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	if got := page.Get("l").Text(); got != "outer" {
		t.Errorf("page-level l = %q, want outer", got)
	}
	if got := page.Get("c:l").Text(); got != "inner" {
		t.Errorf("c:l = %q, want inner", got)
	}
}

func TestDequeue_ReservedIDIsNotPulledIntoChild(t *testing.T) {
	page := NewPage(markup.MustParse(
		`<div wicket:id="c"><span wicket:id="l"></span></div><span wicket:id="l"></span>`))
	if err := page.Queue(NewContainer("c"), NewLabel("l", "outer")); err != nil {
		t.Fatal(err)
	}

	err := page.Dequeue()
	if !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("Dequeue() error = %v, want ErrComponentNotFound", err)
	}
}

func TestDequeue_LiveChildTakesPrecedence(t *testing.T) {
	page := NewPage(markup.MustParse(`<p wicket:id="a"></p>`))
	page.MustAdd(NewLabel("a", "live"))
	if err := page.Queue(NewLabel("a", "queued")); err != nil {
		t.Fatal(err)
	}

	err := page.Dequeue()
	var derr *DequeueError
	if !errors.As(err, &derr) {
		t.Fatalf("Dequeue() error = %v, want *DequeueError", err)
	}
	if derr.ID != "a" || derr.Container != "page" {
		t.Errorf("DequeueError = %+v", derr)
	}
	if got := page.Get("a").Text(); got != "live" {
		t.Errorf("a = %q, want live", got)
	}
}

func TestDequeue_LocalQueueBeforeAncestorQueue(t *testing.T) {
	page := NewPage(markup.MustParse(`<div wicket:id="c"><span wicket:id="l"></span></div>`))
	c := NewContainer("c")
	if err := c.Queue(NewLabel("l", "local")); err != nil {
		t.Fatal(err)
	}
	page.MustAdd(c)
	if err := page.Queue(NewLabel("l", "ancestor")); err != nil {
		t.Fatal(err)
	}

	err := page.Dequeue()
	var derr *DequeueError
	if !errors.As(err, &derr) || derr.ID != "l" || derr.Container != "page" {
		t.Fatalf("Dequeue() error = %v, want leftover ancestor entry", err)
	}
	if got := page.Get("c:l").Text(); got != "local" {
		t.Errorf("c:l = %q, want local", got)
	}
}

func TestDequeue_UnmatchedQueuedComponent(t *testing.T) {
	page := NewPage(markup.MustParse(`<div wicket:id="c"></div>`))
	c := NewContainer("c")
	if err := c.Queue(NewLabel("ghost", ""), NewLabel("phantom", "")); err != nil {
		t.Fatal(err)
	}
	page.MustAdd(c)

	err := page.Dequeue()
	if !IsConfigError(err) {
		t.Fatalf("Dequeue() error = %v, want configuration error", err)
	}

	var ids []string
	for _, e := range unwrapAll(err) {
		var derr *DequeueError
		if errors.As(e, &derr) {
			ids = append(ids, derr.ID)
			if derr.Container != `container "c"` {
				t.Errorf("container = %q", derr.Container)
			}
		}
	}
	if diff := cmp.Diff([]string{"ghost", "phantom"}, ids); diff != "" {
		t.Errorf("unmatched ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDequeue_StopsAtPanel(t *testing.T) {
	panelMarkup := markup.MustParse(`<wicket:panel><span wicket:id="l"></span></wicket:panel>`)

	t.Run("queued on page", func(t *testing.T) {
		page := NewPage(markup.MustParse(`<div wicket:id="p"></div>`))
		if err := page.Queue(NewPanel("p", panelMarkup), NewLabel("l", "x")); err != nil {
			t.Fatal(err)
		}
		if err := page.Dequeue(); !errors.Is(err, ErrComponentNotFound) {
			t.Errorf("Dequeue() error = %v, want ErrComponentNotFound", err)
		}
	})

	t.Run("queued on panel", func(t *testing.T) {
		page := NewPage(markup.MustParse(`<div wicket:id="p"></div>`))
		panel := NewPanel("p", panelMarkup)
		if err := panel.Queue(NewLabel("l", "x")); err != nil {
			t.Fatal(err)
		}
		page.MustAdd(panel)
		if got, want := render(t, page), `<div><span>x</span></div>`; got != want {
			t.Errorf("render = %q, want %q", got, want)
		}
	})
}

func TestDequeue_ThroughTransparentTags(t *testing.T) {
	page := NewPage(markup.MustParse(
		`<wicket:container><span wicket:id="l"></span></wicket:container>`))
	if err := page.Queue(NewLabel("l", "x")); err != nil {
		t.Fatal(err)
	}

	if got, want := render(t, page), `<span>x</span>`; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
	l := page.Get("l")
	if l == nil {
		t.Fatal("label not placed under the page")
	}
}

func TestDequeue_IsRepeatable(t *testing.T) {
	page := NewPage(markup.MustParse(
		`<wicket:container><span wicket:id="l"></span></wicket:container><p wicket:id="m"></p>`))
	page.Queue(NewLabel("l", "x"))
	page.MustAdd(NewLabel("m", "y"))

	for i := 0; i < 3; i++ {
		if err := page.Dequeue(); err != nil {
			t.Fatalf("Dequeue() #%d error = %v", i, err)
		}
	}
	if n := len(page.Children()); n != 3 {
		t.Errorf("children = %v, want one auto component plus l and m", childIDs(page.Component))
	}
}

func unwrapAll(err error) []error {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		return u.Unwrap()
	}
	if u, ok := err.(interface{ WrappedErrors() []error }); ok {
		return u.WrappedErrors()
	}
	return []error{err}
}
