package identities

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/handlers"
	"github.com/JaimeStill/tally/pkg/pagination"
	"github.com/JaimeStill/tally/pkg/routes"
)

var errInvalidRequest = errors.New("invalid request")

// Handler provides HTTP endpoints for identity lookups.
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
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "identities"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for identity endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/identities",
		Children: []routes.Group{
			{
				Prefix: "/placeholders",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListPlaceholders},
					{Method: "GET", Pattern: "/{id}", Handler: h.FindPlaceholder},
					{Method: "POST", Pattern: "/search", Handler: h.SearchPlaceholders},
				},
			},
			{
				Prefix: "/accounts",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{external_id}", Handler: h.FindAccount},
				},
			},
		},
	}
}

// ListPlaceholders returns a paginated list of placeholders with optional query parameter filters.
func (h *Handler) ListPlaceholders(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListPlaceholders(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SearchPlaceholders accepts a JSON body with pagination and filter criteria.
func (h *Handler) SearchPlaceholders(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.ListPlaceholders(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FindPlaceholder returns a single placeholder by its UUID path parameter.
func (h *Handler) FindPlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	p, err := h.sys.FindPlaceholder(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// FindAccount returns the registered account carrying an external identifier.
func (h *Handler) FindAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.FindAccount(r.Context(), r.PathValue("external_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}
