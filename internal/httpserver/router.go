package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/gorilla/mux"

	"incidenthook/internal/relay"
)

// NewRouter serves /healthz and hands every other request to the relay.
func NewRouter(logger *slog.Logger, svc *relay.Service, maxBodyBytes int64) http.Handler {
	r := mux.NewRouter()
	// Deliver on the path as sent; path cleaning would answer with a redirect.
	r.SkipClean(true)

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// The hosting platform decides the trigger route, so accept any path and method.
	r.PathPrefix("/").Handler(&IncidentHandler{
		Relay:        svc,
		Logger:       logger,
		MaxBodyBytes: maxBodyBytes,
	})

	return r
}
