// Package web serves the rendered catalog page and read-only diagnostics.
package web

import "net/http"

// NoStore marks responses as uncacheable. The page and state change after
// the catalog load completes.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
