package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/mkarvo/profile-api/internal/apperr"
	applog "github.com/mkarvo/profile-api/internal/platform/logging"
)

// Recoverer converts panics into the generic 500 response shape. The panic
// value and stack stay in the logs and never reach the client.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					var err error
					switch v := rec.(type) {
					case error:
						err = v
					default:
						err = fmt.Errorf("%v", v)
					}
					applog.LogError(r.Context(), "panic recovered", err,
						zap.String("stack", string(debug.Stack())))
					apperr.Write(w, apperr.Internal(""))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
