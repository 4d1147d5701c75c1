package module

import (
	"net/http"
	"strings"
)

// Router sends each request to the module owning its first path segment,
// or to the native mux when no module claims it. A trailing slash is
// ignored.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: map[string]*Module{},
		native:  http.NewServeMux(),
	}
}

// HandleNative registers an operational endpoint such as /healthz.
func (r *Router) HandleNative(pattern string, h http.Handler) {
	r.native.Handle(pattern, h)
}

func (r *Router) HandleNativeFunc(pattern string, h http.HandlerFunc) {
	r.native.HandleFunc(pattern, h)
}

// Mount replaces any module already mounted at m's prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + seg
}
