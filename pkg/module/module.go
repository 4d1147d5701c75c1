// Package module mounts self-contained HTTP modules under single-segment
// prefixes ("/api") and serves everything else from a native mux.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/wayfarer/pkg/middleware"
)

// Module serves requests below its prefix. The prefix is removed before
// the request reaches the inner handler and the module's middleware.
type Module struct {
	prefix  string
	inner   http.Handler
	stack   middleware.System
	handler http.Handler
}

// New panics when prefix is not a single path segment with a leading
// slash. Prefixes are fixed at build time, so a bad one is a programming
// error.
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	m := &Module{
		prefix: prefix,
		inner:  inner,
		stack:  middleware.New(),
	}
	m.handler = inner
	return m
}

func (m *Module) Prefix() string { return m.prefix }

// Handler returns the inner handler wrapped in the module middleware.
func (m *Module) Handler() http.Handler { return m.handler }

// Use appends mw to the module stack. Register middleware before serving.
func (m *Module) Use(mw middleware.Func) {
	m.stack.Use(mw)
	m.handler = m.stack.Apply(m.inner)
}

// Serve dispatches req to the module with its prefix removed.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	rest, _ := strings.CutPrefix(req.URL.Path, m.prefix)
	if rest == "" {
		rest = "/"
	}

	u := *req.URL
	u.Path = rest
	u.RawPath = ""

	inner := *req
	inner.URL = &u
	m.handler.ServeHTTP(w, &inner)
}

func checkPrefix(prefix string) error {
	seg, ok := strings.CutPrefix(prefix, "/")
	switch {
	case !ok:
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case seg == "":
		return fmt.Errorf("module prefix %q must name a path segment", prefix)
	case strings.Contains(seg, "/"):
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
