package hxpage

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash represents a one-time notification message.
//
// Flash messages are rendered as out-of-band (OOB) swaps that append to
// the #toasts container. Listeners add them to the request cycle:
//
//	rc.Flash(hxpage.FlashSuccess, "Item saved!")
//
// Flashes added during a full page request are kept by the session and
// rendered with the next partial update.
type Flash struct {
	Level   string // success, error, warning, info
	Message string
}

// RenderFlashesOOB renders flashes as OOB swap HTML.
//
// Generates HTML that appends to the #toasts container using the
// hx-swap-oob="beforeend" attribute. The data-auto-dismiss attribute gives
// the delay in milliseconds after which a toast may be removed client side.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="toasts" hx-swap-oob="beforeend">`)

	for _, f := range flashes {
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(templ.EscapeString(f.Level))
		sb.WriteString(`" data-auto-dismiss="3000">`)
		sb.WriteString(templ.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// ToastContainer returns a templ component for the toast container.
//
// Add this to the page markup with a component bound to it, or render it in a
// templ layout:
//
//	page.MustAdd(hxpage.NewComponent("toasts", hxpage.WithBody(hxpage.ToastContainer())))
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="toasts" class="toast-container"></div>`)
		return err
	})
}
