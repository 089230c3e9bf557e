package fx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"sitewatch-orchestrator/config"
	"sitewatch-orchestrator/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubHandler struct{}

func (stubHandler) RegisterRoute(r *chi.Mux) { r.Get("/v1/runs", stubHandler{}.Handle) }

func (stubHandler) Handle(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func newTestMux(env string) *chi.Mux {
	return NewMux(muxParams{
		Cfg:      config.Config{AppEnv: env},
		Logger:   zap.NewNop().Sugar(),
		Handlers: []router.Handler{stubHandler{}},
	})
}

func TestNewMux_CORSPreflight_AllowsLocalhost5173_InDev(t *testing.T) {
	r := newTestMux("development")

	req := httptest.NewRequest(http.MethodOptions, "/v1/runs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin=%q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("missing allow-methods")
	}
}

func TestNewMux_NoCORS_InProduction(t *testing.T) {
	r := newTestMux("production")

	req := httptest.NewRequest(http.MethodOptions, "/v1/runs", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}
