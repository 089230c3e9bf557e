package runs

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/pkg/render"
	"sitewatch-orchestrator/internal/store"
)

const defaultLimit = 20

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
	r.Get("/v1/runs", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			render.ChiErr(w, r, http.StatusBadRequest, errBadLimit)
			return
		}
		limit = n
	}

	recs, err := h.store.List(limit)
	if err != nil {
		h.logger.Errorw("runs_list_failed", "err", err)
		render.ChiErr(w, r, http.StatusInternalServerError, err)
		return
	}

	render.ChiJSON(w, r, http.StatusOK, map[string]any{
		"count": len(recs),
		"runs":  recs,
	})
}
