package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS applies the origin allow-list; "*" anywhere in the list allows every
// origin. The outcome headers ride on xlsx downloads, so they are exposed.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID},
		ExposedHeaders: []string{
			"Content-Disposition",
			HeaderRequestID,
			"X-Outcome-Status",
			"X-Outcome-Message",
		},
		MaxAge: 600,
	})
	return c.Handler
}
