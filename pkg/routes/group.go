package routes

import (
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags. Middleware wraps every
// route in the group and its children, outermost first. Tags and Schemas feed the
// generated OpenAPI spec; children inherit Tags when they declare none.
type Group struct {
	Prefix     string
	Tags       []string
	Schemas    map[string]*openapi.Schema
	Middleware []func(http.Handler) http.Handler
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux and returns the registered patterns.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		patterns = registerGroup(mux, "", nil, group, patterns)
	}
	return patterns
}

func registerGroup(
	mux *http.ServeMux,
	parentPrefix string,
	parentMw []func(http.Handler) http.Handler,
	group Group,
	patterns []string,
) []string {
	prefix := parentPrefix + group.Prefix
	mw := append(append([]func(http.Handler) http.Handler{}, parentMw...), group.Middleware...)

	for _, route := range group.Routes {
		var h http.Handler = route.Handler
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}

		pattern := route.pattern(prefix)
		mux.Handle(pattern, h)
		patterns = append(patterns, pattern)
	}

	for _, child := range group.Children {
		patterns = registerGroup(mux, prefix, mw, child, patterns)
	}
	return patterns
}
