package router

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/go-chi/chi/v5"
)

// Handler is one mounted endpoint. Implementations register their own path
// so the mux never needs per-handler knowledge.
type Handler interface {
	RegisterRoute(r *chi.Mux)
	Handle(w http.ResponseWriter, r *http.Request)
}

// AsRoute tags a handler constructor into the mux's handler group.
func AsRoute(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"handlers"`),
	)
}

// Register mounts every collected handler on the mux.
func Register(r *chi.Mux, handlers []Handler) {
	for _, h := range handlers {
		h.RegisterRoute(r)
	}
}
