package emails

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/handlers"
	"github.com/praxislaw/docket/pkg/middleware"
	"github.com/praxislaw/docket/pkg/pagination"
	"github.com/praxislaw/docket/pkg/routes"
)

// Handler provides HTTP endpoints for email operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "emails"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for email endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/emails",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/participants", Handler: h.Participants},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Import},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

// List returns a paginated list of emails with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	scopeToFirm(r, &filters)

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single email by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Participants returns emails whose sender matches any of the repeated
// address query parameters.
func (h *Handler) Participants(w http.ResponseWriter, r *http.Request) {
	addresses := r.URL.Query()["address"]
	if len(addresses) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingAddress)
		return
	}

	items, err := h.sys.ByParticipants(r.Context(), addresses)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// scopeToFirm restricts reads to the caller's firm when the request carries
// a tenant claim.
func scopeToFirm(r *http.Request, f *Filters) {
	if firm := middleware.FirmFromContext(r.Context()); firm != "" {
		f.FirmID = &firm
	}
}

// Import stores an inbound message by decoding an ImportCommand JSON body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var cmd ImportCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	e, err := h.sys.Import(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, e)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching emails.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	scopeToFirm(r, &req.Filters)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
