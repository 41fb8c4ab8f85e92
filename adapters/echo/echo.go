// Package hxpageecho provides Echo framework integration for hxpage
// applications.
//
// Mount the listener handler and serve pages from Echo routes:
//
//	e := echo.New()
//	app := hxpageecho.NewApplication(key)
//	hxpageecho.Mount(e, app)
//	e.GET("/", hxpageecho.Page(app, newHomePage))
//
// Pages may also be served from a group, sharing its middleware:
//
//	g := e.Group("/app", authMiddleware)
//	g.GET("/items", hxpageecho.Page(app, newItemsPage))
package hxpageecho

import (
	"crypto/rand"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/hxpage"
)

// NewApplication creates an application. If key is nil a random key is
// generated, which is suitable for development only: listener references do
// not survive a restart.
func NewApplication(key []byte, opts ...hxpage.Option) *hxpage.Application {
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxpageecho: failed to generate random key: %v", err))
		}
	}
	return hxpage.NewApplication(key, opts...)
}

// Mount routes listener requests under the application's component path to
// the application.
func Mount(e *echo.Echo, app *hxpage.Application) {
	e.Any(app.Settings().ComponentPath+"*", echo.WrapHandler(app.ListenerHandler()))
}

// Page returns an Echo handler that serves the pages created by factory.
func Page(app *hxpage.Application, factory hxpage.PageFactory) echo.HandlerFunc {
	return echo.WrapHandler(app.PageHandler(factory))
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxpageecho.Render(c, myTemplate())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
