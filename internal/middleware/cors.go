package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS разрешает кросс-доменные запросы к API с указанных origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Content-Encoding", "Accept-Encoding"}),
		handlers.ExposedHeaders([]string{"Location"}),
	)
}
