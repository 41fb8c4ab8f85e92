// Package hxpage provides a component tree for server-rendered, interactive
// web pages built with Go, Templ templates and HTMX.
//
// # Core Concepts
//
// A Page is the root of a tree of components. Each component is bound to a
// tag in the page's markup through its wicket:id attribute:
//
//	page := hxpage.NewPage(markup.MustParse(`
//	    <h1 wicket:id="title"></h1>
//	    <ul wicket:id="items"><li wicket:id="first"></li></ul>`))
//	page.MustAdd(
//	    hxpage.NewLabel("title", "Inbox"),
//	    hxpage.NewContainer("items").MustAdd(hxpage.NewLabel("first", "Hello")),
//	)
//
// Panels and borders carry markup of their own, in a <wicket:panel> or
// <wicket:border> section. A border renders the body of its tag where its
// markup has a <wicket:body/> tag.
//
// # Queueing
//
// Instead of building the tree by hand, components may be queued on any
// ancestor. Dequeue walks the markup and moves each queued component under
// the container bound to the enclosing tag:
//
//	page.Queue(hxpage.NewLabel("title", "Inbox"), hxpage.NewContainer("items"), hxpage.NewLabel("first", "Hello"))
//
// Pages, panels and borders bound the search: a tag inside a panel never
// takes a component queued on the page.
//
// # Auto Components
//
// Tags without a component are offered to a chain of resolvers. The built-in
// resolvers handle <wicket:container>, <wicket:message>, <wicket:body> and
// header contributions; applications add their own with WithResolver. Auto
// components are dropped again when the request cycle ends.
//
// # Events
//
// Components, the request cycle, the session and the application receive
// events sent with an EventSender or RequestCycle.Send. BREADTH and DEPTH
// deliver an event to a sink and its descendants, BUBBLE to a sink and its
// ancestors. Any receiver may stop an event.
//
// # Listeners and Partial Updates
//
// Listeners are invoked over HTMX. A listener reference names the page,
// component path and listener, and travels signed (or encrypted with
// SensitiveListeners) in the request:
//
//	button.Listen("click", func(rc *hxpage.RequestCycle) error {
//	    count++
//	    counter.SetText(strconv.Itoa(count))
//	    rc.Add(counter)
//	    return nil
//	})
//
// The components added to the request cycle are sent back as out-of-band
// swaps, together with flash messages and HX-Trigger events.
//
// CSRF protection is automatic - mutating methods (POST/PUT/DELETE/PATCH)
// require the HX-Request: true header that HTMX sends, preventing cross-origin
// attacks without additional tokens.
//
// # Applications
//
// An Application keeps sessions, each holding its most recent pages, and
// serves mounted pages and listener requests:
//
//	app := hxpage.NewApplication(key)
//	app.Mount("GET /{$}", newHomePage)
//	http.ListenAndServe(":8080", app.Handler())
//
// The application provides centralized error handling via its OnError
// callback.
package hxpage
