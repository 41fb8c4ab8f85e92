package hxpage

import (
	"context"
	"strings"
	"testing"
)

func TestRenderFlashesOOB(t *testing.T) {
	tests := []struct {
		name    string
		flashes []Flash
		want    string
	}{
		{"nil", nil, ""},
		{"empty", []Flash{}, ""},
		{
			name:    "single",
			flashes: []Flash{{Level: FlashSuccess, Message: "Item saved successfully"}},
			want: `<div id="toasts" hx-swap-oob="beforeend">` +
				`<div class="toast toast-success" data-auto-dismiss="3000">Item saved successfully</div>` +
				`</div>`,
		},
		{
			name: "several in order",
			flashes: []Flash{
				{Level: FlashSuccess, Message: "First"},
				{Level: FlashWarning, Message: "Second"},
			},
			want: `<div id="toasts" hx-swap-oob="beforeend">` +
				`<div class="toast toast-success" data-auto-dismiss="3000">First</div>` +
				`<div class="toast toast-warning" data-auto-dismiss="3000">Second</div>` +
				`</div>`,
		},
		{
			name:    "message and level are escaped",
			flashes: []Flash{{Level: "<bad>", Message: "<script>alert('xss')</script>"}},
			want: `<div id="toasts" hx-swap-oob="beforeend">` +
				`<div class="toast toast-&lt;bad&gt;" data-auto-dismiss="3000">&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;</div>` +
				`</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderFlashesOOB(tt.flashes); got != tt.want {
				t.Errorf("RenderFlashesOOB() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionFlashes(t *testing.T) {
	app := newTestApp(t)
	s := app.NewSession()
	s.Flash(FlashInfo, "Welcome")
	s.Flash(FlashError, "Try again")

	got := s.takeFlashes()
	if len(got) != 2 || got[0].Message != "Welcome" || got[1].Level != FlashError {
		t.Errorf("takeFlashes() = %v", got)
	}
	if again := s.takeFlashes(); len(again) != 0 {
		t.Errorf("second takeFlashes() = %v, want none", again)
	}
}

func TestToastContainer(t *testing.T) {
	var sb strings.Builder
	if err := ToastContainer().Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := sb.String(), `<div id="toasts" class="toast-container"></div>`; got != want {
		t.Errorf("ToastContainer() = %q, want %q", got, want)
	}
}
