package hxpage

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// TestResult holds the result of rendering a page or invoking a listener
// for testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, events, flashes, and redirects.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Flashes         []Flash
	RedirectURL     string
}

// TestRender renders a page and returns testable output.
//
// Use this for unit tests of a component tree when you don't need HTTP
// mechanics. The page is dequeued and rendered as for a full page request.
//
//	result, err := hxpage.TestRender(page)
//	if !result.HTMLContains("expected text") {
//	    t.Fatal("missing expected content")
//	}
func TestRender(p *Page) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), p)
}

// TestRenderWithContext renders a page with a custom context.
func TestRenderWithContext(ctx context.Context, p *Page) (*TestResult, error) {
	var buf bytes.Buffer
	if err := p.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestListener invokes a named listener of c through the application
// handler, the way an HTMX request from the rendered page would.
//
// If the page is not yet kept by a session, a new session of app stores it.
//
//	result, err := hxpage.TestListener(app, page, button, "save", map[string]string{
//	    "name": "new name",
//	})
//	if !result.IsOK() {
//	    t.Fatal("expected success")
//	}
func TestListener(app *Application, p *Page, c *Component, listener string, formData map[string]string) (*TestResult, error) {
	return testListener(app, p, ListenerRef{Path: c.Path(), Listener: listener, Behavior: -1}, formData)
}

// TestBehavior invokes a listening behavior of c, such as an
// AjaxEventBehavior, through the application handler.
func TestBehavior(app *Application, p *Page, c *Component, b Behavior, formData map[string]string) (*TestResult, error) {
	i := c.behaviorIndex(b)
	if i < 0 {
		return nil, ErrBehaviorNotFound
	}
	return testListener(app, p, ListenerRef{Path: c.Path(), Behavior: i}, formData)
}

func testListener(app *Application, p *Page, ref ListenerRef, formData map[string]string) (*TestResult, error) {
	s := p.session
	if s == nil {
		s = app.NewSession()
		s.AddPage(p)
	}
	ref.PageID = p.id
	encoded, err := app.encoder.Encode(ref, app.settings.SensitiveListeners)
	if err != nil {
		return nil, err
	}
	return NewTestRequest(http.MethodPost, app.settings.ComponentPath).
		WithFormValues(formData).
		WithFormData("l", encoded).
		WithSession(app, s).
		Execute(app.Handler())
}

// TestGet simulates a GET request against h.
func TestGet(h http.Handler, url string) (*TestResult, error) {
	return NewTestRequest(http.MethodGet, url).Execute(h)
}

// TestPost simulates a POST request with form data against h.
func TestPost(h http.Handler, url string, formData map[string]string) (*TestResult, error) {
	return NewTestRequest(http.MethodPost, url).WithFormValues(formData).Execute(h)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if strings.Contains(e, event) {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was set with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// WasRedirected checks if the response was a redirect.
func (r *TestResult) WasRedirected() bool {
	return r.RedirectURL != ""
}

// RedirectedTo checks if the response was redirected to a specific URL.
func (r *TestResult) RedirectedTo(url string) bool {
	return r.RedirectURL == url
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// parseTriggerHeader returns the event names of an HX-Trigger header, either
// a comma separated list or a JSON object keyed by event name.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}
	if !strings.HasPrefix(trigger, "{") {
		var events []string
		for _, name := range strings.Split(trigger, ",") {
			if name = strings.TrimSpace(name); name != "" {
				events = append(events, name)
			}
		}
		return events
	}

	// walk the tokens so that keys keep their order
	dec := json.NewDecoder(strings.NewReader(trigger))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var events []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return events
		}
		key, _ := tok.(string)
		events = append(events, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return events
		}
	}
	return events
}

// parseFlashesFromHTML extracts the toasts of RenderFlashesOOB output.
func parseFlashesFromHTML(s string) []Flash {
	var flashes []Flash
	var current *Flash
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return flashes
		case html.StartTagToken:
			for {
				key, val, more := z.TagAttr()
				if string(key) == "class" {
					if level, ok := strings.CutPrefix(string(val), "toast toast-"); ok {
						current = &Flash{Level: level}
					}
				}
				if !more {
					break
				}
			}
		case html.TextToken:
			if current != nil {
				current.Message += string(z.Text())
			}
		case html.EndTagToken:
			if current != nil {
				flashes = append(flashes, *current)
				current = nil
			}
		}
	}
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
// Use this when you need fine-grained control over request construction:
//
//	result, err := hxpage.NewTestRequest("POST", "/_c/").
//	    WithFormData("l", encoded).
//	    WithHeader("X-Custom", "header").
//	    WithSession(app, session).
//	    Execute(app.Handler())
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	cookies  []*http.Cookie
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData[key] = value
	return b
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = v
	}
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithSession sends the session cookie of s.
func (b *TestRequestBuilder) WithSession(app *Application, s *Session) *TestRequestBuilder {
	b.cookies = append(b.cookies, &http.Cookie{Name: app.settings.SessionCookie, Value: s.id})
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against h.
func (b *TestRequestBuilder) Execute(h http.Handler) (*TestResult, error) {
	// Build form body
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	var body *strings.Reader
	if len(b.formData) > 0 {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(b.method, b.url, body)
	req = req.WithContext(b.ctx)

	// Set default HTMX header
	req.Header.Set("HX-Request", "true")

	// Set content type if form data present
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Set custom headers
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	// Record response
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return newTestResult(rec), nil
}

func newTestResult(rec *httptest.ResponseRecorder) *TestResult {
	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}

	// Parse triggered events
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}

	// Parse redirect
	if redirect := rec.Header().Get("HX-Redirect"); redirect != "" {
		result.RedirectURL = redirect
	} else if loc := rec.Header().Get("Location"); loc != "" {
		result.RedirectURL = loc
	}

	// Parse flashes
	result.Flashes = parseFlashesFromHTML(result.HTML)

	return result
}
