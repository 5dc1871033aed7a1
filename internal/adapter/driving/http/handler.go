// Package httphandler serves the JSON status API and metrics endpoint.
package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/transport"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// SessionReader reports whether the process currently holds a credential.
type SessionReader interface {
	IsAuthenticated() bool
}

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	session SessionReader
	api     driven.CostumeAPI
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session SessionReader, api driven.CostumeAPI, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		api:     api,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterAPIRoutes registers the JSON API and metrics routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/session", h.Session)
	mux.HandleFunc("GET /api/v1/costumes", h.withLogNotifier(h.ListCostumes))
	mux.HandleFunc("GET /api/v1/costumes/{id}", h.withLogNotifier(h.GetCostume))
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Health reports liveness. It never touches the costume backend.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// Session reports whether a credential is held.
func (h *Handler) Session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: h.session.IsAuthenticated()})
}

// ListCostumes proxies the costume list through the transport pipeline.
func (h *Handler) ListCostumes(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	costumes, err := h.api.ListCostumes(r.Context())
	if err != nil {
		h.writeUpstreamError(w, "failed to list costumes", err)
		return
	}

	resp := make([]CostumeResponse, 0, len(costumes))
	for _, c := range costumes {
		resp = append(resp, toCostumeResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCostume proxies a single costume through the transport pipeline.
func (h *Handler) GetCostume(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w) {
		return
	}

	costume, err := h.api.GetCostume(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUpstreamError(w, "failed to get costume", err)
		return
	}
	writeJSON(w, http.StatusOK, toCostumeResponse(*costume))
}

// withLogNotifier reports failed backend calls made by next to the log only,
// keeping them out of the GUI's flash queue. The JSON response already
// carries the message.
func (h *Handler) withLogNotifier(next http.HandlerFunc) http.HandlerFunc {
	notify := driven.NotifierFunc(func(ctx context.Context, n model.Notification) {
		h.logger.DebugContext(ctx, "api call failed", "request_id", RequestID(ctx), "message", n.Message)
	})
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(driven.ContextWithNotifier(r.Context(), notify)))
	}
}

func (h *Handler) requireSession(w http.ResponseWriter) bool {
	if h.session.IsAuthenticated() {
		return true
	}
	writeError(w, http.StatusUnauthorized, "not signed in")
	return false
}

// writeUpstreamError mirrors client-side statuses from the backend and maps
// everything else to 502.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, msg string, err error) {
	status := driven.HTTPStatus(err)
	h.logger.Warn(msg, "status", status, "error", err)

	if status < 400 || status >= 500 {
		status = http.StatusBadGateway
	}
	writeError(w, status, transport.UserMessage(err))
}
