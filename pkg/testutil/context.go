package testutil

import (
	"net/http"

	"nyaya/pkg/domain"
	"nyaya/pkg/requestcontext"
)

// WithActor simulates what RequireAuth does for an authenticated request.
func WithActor(req *http.Request, actor domain.ActorID, role domain.Role) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor, role))
}

// ActorMiddleware injects a fixed actor in place of RequireAuth when mounting
// a handler directly on a router.
func ActorMiddleware(actor domain.ActorID, role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, WithActor(r, actor, role))
		})
	}
}
