package routes

import "net/http"

// Route binds one HTTP method and pattern to a handler. Patterns may use
// ServeMux wildcards such as {id}.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
