package routes

import "net/http"

// Route binds an HTTP method and a pattern, relative to its group, to a
// handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// at returns the ServeMux pattern of r mounted under prefix.
func (r Route) at(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
