package audit

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/handlers"
	"github.com/praxislaw/docket/pkg/routes"
)

// Handler provides read-only HTTP endpoints for the classification log.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "audit"),
	}
}

// Routes returns the route group definition for audit endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/audit",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/email/{id}", Handler: h.ListByEmail},
			{Method: "GET", Pattern: "/case/{id}", Handler: h.ListByCase},
		},
	}
}

// ListByEmail returns the decision history for an email, oldest first.
func (h *Handler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	entries, err := h.sys.ListByEmail(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

// ListByCase returns the decision history for a case, oldest first.
func (h *Handler) ListByCase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	entries, err := h.sys.ListByCase(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}
