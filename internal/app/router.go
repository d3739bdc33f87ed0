// ABOUTME: Screen routing for the client front-ends
// ABOUTME: Router tracks the current screen and notifies listeners on navigation

package app

import "sync"

// Route names a screen.
type Route string

const (
	RouteLogin    Route = "/"
	RouteArticles Route = "/articles"
)

// Navigator changes the current screen.
type Navigator interface {
	Navigate(to Route)
}

// Router is the default Navigator.
type Router struct {
	mu        sync.Mutex
	current   Route
	listeners []func(Route)
}

// NewRouter returns a Router positioned at start.
func NewRouter(start Route) *Router {
	return &Router{current: start}
}

// Navigate moves to the given route and notifies listeners.
func (r *Router) Navigate(to Route) {
	r.mu.Lock()
	r.current = to
	listeners := make([]func(Route), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(to)
	}
}

// Current returns the current route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnNavigate registers fn to run after every navigation.
func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
