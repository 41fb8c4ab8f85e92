package hxpage

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsHTMX(t *testing.T) {
	tests := []struct {
		name   string
		header string
		expect bool
	}{
		{"with HX-Request true", "true", true},
		{"with HX-Request false", "false", false},
		{"without header", "", false},
		{"with other value", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}

			result := IsHTMX(req)
			if result != tt.expect {
				t.Errorf("IsHTMX() = %v, want %v", result, tt.expect)
			}
		})
	}
}

func TestParseHTMX(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    HTMX
	}{
		{"plain request", nil, HTMX{}},
		{
			name: "all headers",
			headers: map[string]string{
				"HX-Request":      "true",
				"HX-Boosted":      "true",
				"HX-Current-URL":  "http://example.com/page",
				"HX-Trigger":      "btn-123",
				"HX-Trigger-Name": "save-draft",
				"HX-Target":       "target-div",
				"HX-Prompt":       "yes",
			},
			want: HTMX{
				Request:     true,
				Boosted:     true,
				CurrentURL:  "http://example.com/page",
				Trigger:     "btn-123",
				TriggerName: "save-draft",
				Target:      "target-div",
				Prompt:      "yes",
			},
		},
		{"boosted false", map[string]string{"HX-Request": "true", "HX-Boosted": "false"}, HTMX{Request: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if diff := cmp.Diff(tt.want, ParseHTMX(req)); diff != "" {
				t.Errorf("ParseHTMX() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("request cycle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("HX-Trigger-Name", "save-draft")
		if got := NewRequestCycle(nil, nil, nil, nil, req).HTMX().TriggerName; got != "save-draft" {
			t.Errorf("TriggerName = %q", got)
		}
		if got := NewRequestCycle(nil, nil, nil, nil, nil).HTMX(); got != (HTMX{}) {
			t.Errorf("HTMX() without request = %+v", got)
		}
	})
}

func TestRenderHelper(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := Render(rec, req, ToastContainer()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="toasts"`) {
		t.Errorf("body = %q, want toast container", rec.Body.String())
	}
}

func TestBuildTriggerHeader(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		triggers map[string]any
		expect   string
	}{
		{
			name:   "empty",
			expect: "",
		},
		{
			name:     "simple trigger",
			order:    []string{"item-updated"},
			triggers: map[string]any{"item-updated": nil},
			expect:   "item-updated",
		},
		{
			name:     "several simple triggers",
			order:    []string{"item-updated", "list-changed"},
			triggers: map[string]any{"item-updated": nil, "list-changed": nil},
			expect:   "item-updated, list-changed",
		},
		{
			name:     "trigger with data",
			order:    []string{"filter:changed"},
			triggers: map[string]any{"filter:changed": map[string]any{"status": "pending"}},
			expect:   `{"filter:changed":{"status":"pending"}}`,
		},
		{
			name:     "trigger with multiple data values",
			order:    []string{"item:saved"},
			triggers: map[string]any{"item:saved": map[string]any{"id": "123", "name": "test"}},
			expect:   `{"item:saved":{"id":"123","name":"test"}}`,
		},
		{
			name:     "mixed triggers",
			order:    []string{"saved", "item:saved"},
			triggers: map[string]any{"saved": nil, "item:saved": map[string]any{"id": 1}},
			expect:   `{"item:saved":{"id":1},"saved":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildTriggerHeader(tt.order, tt.triggers)
			if result != tt.expect {
				t.Errorf("BuildTriggerHeader() = %q, want %q", result, tt.expect)
			}
		})
	}
}
