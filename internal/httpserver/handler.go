package httpserver

import (
	"io"
	"net/http"

	"log/slog"

	"incidenthook/internal/relay"
)

type IncidentHandler struct {
	Relay        *relay.Service
	Logger       *slog.Logger
	MaxBodyBytes int64
}

func (h *IncidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &httpRequest{r: r, w: w, limit: h.MaxBodyBytes}
	resp := h.Relay.Handle(r.Context(), req)

	h.Logger.Debug("incident request handled",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.Status)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// httpRequest exposes an *http.Request body as a relay.Request.
type httpRequest struct {
	r     *http.Request
	w     http.ResponseWriter
	limit int64
}

func (req *httpRequest) Body() ([]byte, error) {
	if req.r.Body == nil {
		return nil, nil
	}
	body := io.Reader(req.r.Body)
	if req.limit > 0 {
		body = http.MaxBytesReader(req.w, req.r.Body, req.limit)
	}
	return io.ReadAll(body)
}
