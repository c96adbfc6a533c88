package routes

import "net/http"

// Group organizes routes under a common prefix. Children inherit the
// accumulated prefix of their parents.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, handler)
	})
}

// Patterns returns the ServeMux pattern ("METHOD /path") of every route in
// the given groups, in registration order.
func Patterns(groups ...Group) []string {
	var patterns []string
	walk(groups, func(pattern string, _ http.HandlerFunc) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

func walk(groups []Group, visit func(string, http.HandlerFunc)) {
	for _, group := range groups {
		walkGroup("", group, visit)
	}
}

func walkGroup(parentPrefix string, group Group, visit func(string, http.HandlerFunc)) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		visit(route.at(fullPrefix), route.Handler)
	}
	for _, child := range group.Children {
		walkGroup(fullPrefix, child, visit)
	}
}
