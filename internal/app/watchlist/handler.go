package watchlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/config"
	"sitewatch-orchestrator/internal/pkg/render"
	"sitewatch-orchestrator/internal/sites"
)

// Handler exposes the configured watch list.
type Handler struct {
	sitesFile string
	logger    *zap.SugaredLogger
}

type NewHandlerParams struct {
	fx.In

	Cfg    config.Config
	Logger *zap.SugaredLogger
}

func NewHandler(p NewHandlerParams) *Handler {
	return &Handler{sitesFile: p.Cfg.SitesFile, logger: p.Logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/sites", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	list, err := sites.Load(h.sitesFile)
	if err != nil {
		h.logger.Warnw("sites_file_unreadable", "path", h.sitesFile, "err", err)
		render.ChiJSON(w, r, http.StatusOK, map[string]any{"count": 0, "sites": []sites.Site{}})
		return
	}

	render.ChiJSON(w, r, http.StatusOK, map[string]any{
		"count": list.Count(),
		"sites": list.All(),
	})
}
