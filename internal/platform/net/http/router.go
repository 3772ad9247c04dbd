package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is a plain handler function
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount their routes on; chi backs it in production
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// Mux is the root handler to serve or test against
	Mux() http.Handler
}

// AdaptChi wraps a chi mux or subrouter as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r} }

type chiRouter struct{ chi chi.Router }

func (c chiRouter) Get(p string, h Handler)  { c.chi.Get(p, h) }
func (c chiRouter) Post(p string, h Handler) { c.chi.Post(p, h) }

func (c chiRouter) Handle(p string, h http.Handler)           { c.chi.Handle(p, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.chi.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.chi.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.chi.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Mux() http.Handler { return c.chi }
