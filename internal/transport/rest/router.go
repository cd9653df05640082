package rest

import (
	"net/http"

	"github.com/heartmarshall/inkwell-backend/internal/transport/middleware"
)

// NewRouter registers all HTTP routes. reviewLimit is applied only to the
// review routes, which run agent pipelines and are far more expensive than
// the rest of the API.
func NewRouter(health *HealthHandler, posts *PostHandler, reviews *ReviewHandler, reviewLimit middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("POST /v1/posts", posts.Create)
	mux.HandleFunc("GET /v1/posts", posts.List)
	mux.HandleFunc("GET /v1/posts/my", posts.ListMine)
	mux.HandleFunc("GET /v1/posts/{id}", posts.Get)
	mux.HandleFunc("PUT /v1/posts/{id}", posts.Update)
	mux.HandleFunc("DELETE /v1/posts/{id}", posts.Delete)

	limited := func(h http.HandlerFunc) http.Handler {
		if reviewLimit == nil {
			return h
		}
		return reviewLimit(h)
	}
	mux.Handle("POST /v1/reviews/posts/{post_id}", limited(reviews.Start))
	mux.Handle("POST /v1/reviews/posts/{post_id}/rewrite", limited(reviews.Rewrite))
	mux.Handle("POST /v1/reviews/posts/{post_id}/style-check", limited(reviews.StyleCheck))
	mux.HandleFunc("GET /v1/reviews/posts/{post_id}/sessions", reviews.ListSessions)
	mux.HandleFunc("GET /v1/reviews/sessions/{id}", reviews.GetSession)
	mux.HandleFunc("POST /v1/reviews/sessions/{id}/apply", reviews.Apply)

	return mux
}
