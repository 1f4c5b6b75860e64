package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets storefront pages post events directly from the browser.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Shopper-ID"},
		MaxAge:         600,
	}).Handler(next)
}
