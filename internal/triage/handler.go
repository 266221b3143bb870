package triage

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/emails"
	"github.com/praxislaw/docket/pkg/handlers"
	"github.com/praxislaw/docket/pkg/routes"
)

// Handler provides HTTP endpoints for triage operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "triage"),
	}
}

// Routes returns the route group definition for triage endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/triage",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/email/{id}", Handler: h.ClassifyEmail},
			{Method: "POST", Pattern: "/client/{id}", Handler: h.ClassifyClient},
		},
	}
}

// ClassifyEmail classifies a single email identified by the id path parameter.
func (h *Handler) ClassifyEmail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, emails.ErrNotFound)
		return
	}

	result, err := h.sys.ClassifyEmail(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ClassifyClient classifies all unassigned emails for the client identified
// by the id path parameter.
func (h *Handler) ClassifyClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, emails.ErrNotFound)
		return
	}

	batch, err := h.sys.ClassifyClient(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, batch)
}
