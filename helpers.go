package hxpage

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for non-component pages or when manually
// rendering component output.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxpage.Render(w, r, myTemplate())
//	}
//
// Mounted pages don't need this - the application renders them.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// HTMX sends HX-Request: true on all requests. Use this to conditionally
// render partial content for HTMX vs full page for direct browser requests:
//
//	if hxpage.IsHTMX(r) {
//	    return partialView()
//	}
//	return fullPageView()
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// HTMX holds the request headers HTMX sends with every request.
type HTMX struct {
	// Request is set for all HTMX requests (HX-Request).
	Request bool
	// Boosted is set for hx-boost navigation (HX-Boosted).
	Boosted bool
	// CurrentURL is the URL the browser is on, not the request URL
	// (HX-Current-URL).
	CurrentURL string
	// Trigger is the id of the element that triggered the request
	// (HX-Trigger).
	Trigger string
	// TriggerName is the name of the element that triggered the request,
	// such as the submit button of a form (HX-Trigger-Name).
	TriggerName string
	// Target is the id of the element receiving the response (HX-Target).
	Target string
	// Prompt is the user's answer to hx-prompt (HX-Prompt).
	Prompt string
}

// ParseHTMX reads the HTMX headers of r. Fields are empty for requests that
// do not come from HTMX.
func ParseHTMX(r *http.Request) HTMX {
	h := r.Header
	return HTMX{
		Request:     h.Get("HX-Request") == "true",
		Boosted:     h.Get("HX-Boosted") == "true",
		CurrentURL:  h.Get("HX-Current-URL"),
		Trigger:     h.Get("HX-Trigger"),
		TriggerName: h.Get("HX-Trigger-Name"),
		Target:      h.Get("HX-Target"),
		Prompt:      h.Get("HX-Prompt"),
	}
}

// BuildTriggerHeader builds a properly formatted HX-Trigger header value.
//
// Supports two cases:
//  1. Simple event names: "item-updated" -> "item-updated", several joined
//     with ", "
//  2. Events with data: "filter:changed" + {"status": "active"} ->
//     {"filter:changed": {"status": "active"}}
//
// When data is provided with an event, HTMX fires the event with evt.detail
// set to the data object. order lists the event names in the order they were
// triggered; triggers maps them to their data, nil for none.
func BuildTriggerHeader(order []string, triggers map[string]any) string {
	if len(order) == 0 {
		return ""
	}

	withData := false
	for _, name := range order {
		if triggers[name] != nil {
			withData = true
			break
		}
	}
	if !withData {
		return strings.Join(order, ", ")
	}

	// Need JSON format for data
	merged := make(map[string]any, len(order))
	for _, name := range order {
		if data := triggers[name]; data != nil {
			merged[name] = data
		} else {
			merged[name] = true
		}
	}

	data, _ := json.Marshal(merged)
	return string(data)
}
