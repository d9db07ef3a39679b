package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	contacts *application.ContactService
	logger   *slog.Logger
	now      func() time.Time
	ready    func(context.Context) error
}

// HandlerOption configures optional Handler behaviour.
type HandlerOption func(*Handler)

// WithReadiness makes GET /api/v1/ready report 503 while check fails.
// Without it the endpoint always reports ready.
func WithReadiness(check func(context.Context) error) HandlerOption {
	return func(h *Handler) {
		h.ready = check
	}
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(contacts *application.ContactService, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		contacts: contacts,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// MuxConfig holds the cross-cutting settings of the REST mux.
type MuxConfig struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin string
	// Metrics receives request counters and histograms and is exposed on
	// GET /metrics. Nil disables both.
	Metrics *metrics.Set
}

// RegisterAPIRoutes mounts the REST routes on mux without middleware. Callers
// that share a mux with other adapters wrap the whole mux with ApplyMiddleware.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler, set *metrics.Set) {
	mux.HandleFunc("GET /api/v1/records", h.ListContacts)
	mux.HandleFunc("GET /api/v1/records/{id}", h.GetContact)
	mux.HandleFunc("POST /api/v1/records", h.CreateContact)
	mux.HandleFunc("PUT /api/v1/records/{id}", h.UpdateContact)
	mux.HandleFunc("DELETE /api/v1/records/{id}", h.DeleteContact)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/ready", h.Ready)

	mux.HandleFunc("GET /api/pessoas", h.ListPessoas)
	mux.HandleFunc("POST /api/pessoas", h.CreatePessoa)
	mux.HandleFunc("PUT /api/pessoas/{id}", h.UpdatePessoa)
	mux.HandleFunc("DELETE /api/pessoas/{id}", h.DeletePessoa)

	if set != nil {
		mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
			set.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		})
	}
}

// ApplyMiddleware applies the middleware chain shared by every adapter on the mux.
func ApplyMiddleware(next http.Handler, cfg MuxConfig, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging and metering.
	wrapped := recoveryMiddleware(logger, next)
	if cfg.Metrics != nil {
		wrapped = metricsMiddleware(cfg.Metrics, wrapped)
	}
	wrapped = corsMiddleware(cfg.CORSOrigin, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// NewServeMux creates an http.Handler with the REST routes registered and
// wrapped with logging, CORS, metrics and recovery middleware.
func NewServeMux(h *Handler, cfg MuxConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h, cfg.Metrics)
	return ApplyMiddleware(mux, cfg, logger)
}

// ListContacts returns every stored contact in insertion order.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		resp = append(resp, toContactResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetContact returns a single contact by ID.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get contact", id, err)
		return
	}

	writeJSON(w, http.StatusOK, toContactResponse(*contact))
}

// CreateContact stores a new contact and returns it with its assigned ID.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeBody(w, r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.contacts.Create(r.Context(), req.toModel(""))
	if err != nil {
		h.writeServiceError(w, "create contact", "", err)
		return
	}

	writeJSON(w, http.StatusCreated, toContactResponse(created))
}

// UpdateContact overwrites the contact with the given ID.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req ContactRequest
	if !decodeBody(w, r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.contacts.Update(r.Context(), req.toModel(id)); err != nil {
		h.writeServiceError(w, "update contact", id, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "contact updated"})
}

// DeleteContact removes the contact with the given ID.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "delete contact", id, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "contact removed"})
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the backing store answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps a service error to a status code. Only unexpected
// failures are logged at error level; their details never reach the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, op, id string, err error) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, driven.ErrContactNotFound):
		writeError(w, http.StatusNotFound, "contact not found")
	default:
		h.logger.Error("failed to "+op, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes a size-limited JSON body into v and reports success.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v) == nil
}
