package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware enforcing a strict cross-origin allowlist. With no
// configured origins every cross-origin request is denied; there is no
// wildcard fallback. The deny is implemented with an AllowOriginFunc that
// rejects everything, since cors.Handler treats an empty AllowedOrigins list
// as "allow all" and any sentinel origin string could be sent by a real
// client ("null" in particular, from sandboxed documents).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if len(allowedOrigins) == 0 {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	}
	return cors.Handler(opts)
}
