package kit

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

// ParseOrigins splits a comma-separated origin list. An empty value means
// any origin.
func ParseOrigins(raw string) []string {
	out := make([]string, 0, 4)
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// CORS allows every method and header for the given origins, with
// credentials. A "*" entry echoes the caller's origin, since browsers refuse
// a literal wildcard on credentialed requests.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	}
	return cors.Handler(opts)
}
