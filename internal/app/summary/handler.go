package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/pkg/render"
	"sitewatch-orchestrator/internal/report"
	"sitewatch-orchestrator/internal/store"
)

const digestLimit = 20

// Handler serves the Markdown run digest.
type Handler struct {
	store  *store.Store
	logger *zap.SugaredLogger
}

type NewHandlerParams struct {
	fx.In

	Store  *store.Store
	Logger *zap.SugaredLogger
}

func NewHandler(p NewHandlerParams) *Handler {
	return &Handler{store: p.Store, logger: p.Logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/summary", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List(digestLimit)
	if err != nil {
		h.logger.Errorw("summary_list_failed", "err", err)
		render.ChiErr(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Render(recs)))
}
