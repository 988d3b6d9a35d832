package routes

import (
	"context"
	"slices"
	"sort"

	"github.com/trustcare/cli/internal/session"
)

// Handler renders a screen.
type Handler func(ctx context.Context) error

// Route is a registered screen.
type Route struct {
	Path    string
	Title   string
	Guard   Guard
	Handler Handler
}

// Resolution is the result of looking a path up against the session.
type Resolution struct {
	Route   *Route
	Outcome Outcome
}

// Router maps paths to guarded screens.
type Router struct {
	view   session.View
	routes map[string]*Route
}

// NewRouter returns a router evaluating guards against view.
func NewRouter(view session.View) *Router {
	return &Router{view: view, routes: make(map[string]*Route)}
}

// Public registers a screen anyone may open.
func (r *Router) Public(path, title string, h Handler) {
	r.routes[path] = &Route{Path: path, Title: title, Handler: h}
}

// Group starts a protected subtree.
func (r *Router) Group(guards ...Guard) *Group {
	return &Group{router: r, guards: guards}
}

// Resolve evaluates the guards of path. Unknown paths redirect to login.
func (r *Router) Resolve(path string) Resolution {
	route, ok := r.routes[path]
	if !ok {
		return Resolution{Outcome: Outcome{Decision: Redirect, To: Login}}
	}
	if route.Guard == nil {
		return Resolution{Route: route, Outcome: Outcome{Decision: Allow}}
	}
	return Resolution{Route: route, Outcome: route.Guard.Check(r.view)}
}

// Paths lists registered paths in order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Group is a set of routes sharing guards. Nested groups append their own
// guards after the parent's.
type Group struct {
	router *Router
	guards []Guard
}

// Group nests a subtree under g.
func (g *Group) Group(guards ...Guard) *Group {
	combined := append(slices.Clone(g.guards), guards...)
	return &Group{router: g.router, guards: combined}
}

// Handle registers a screen inside the group.
func (g *Group) Handle(path, title string, h Handler) {
	g.router.routes[path] = &Route{Path: path, Title: title, Guard: Chain(g.guards...), Handler: h}
}
