package render

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type errResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func ChiJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ChiErr writes a JSON error envelope carrying the chi request id so a
// client report can be matched to the server log line.
func ChiErr(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	ChiJSON(w, r, status, errResponse{
		Error:     msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
