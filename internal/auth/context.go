package auth

import "net/http"

// ContextKey is the type used for context keys
type ContextKey string

const (
	// ContextKeyUsername is the key for the authenticated username in the context
	ContextKeyUsername ContextKey = "username"
	// ContextKeySession is the key for the session in the context
	ContextKeySession ContextKey = "session"
)

// GetUsername retrieves the authenticated username from the request context.
func GetUsername(r *http.Request) string {
	if username, ok := r.Context().Value(ContextKeyUsername).(string); ok {
		return username
	}
	return ""
}
