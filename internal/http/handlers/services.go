package handlers

import (
	"context"
	"net/http"

	"github.com/smoothbar/studio-backend/internal/catalog"
	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

// CatalogAPI is the slice of the Square client the services endpoint needs.
type CatalogAPI interface {
	SearchCatalog(ctx context.Context) ([]square.CatalogObject, error)
}

// ServicesHandler serves the waxing service list for the pricing page.
type ServicesHandler struct {
	api    CatalogAPI
	logger *logging.Logger
}

func NewServicesHandler(api CatalogAPI, logger *logging.Logger) *ServicesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ServicesHandler{api: api, logger: logger.Component("services")}
}

// List handles GET /api/services.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	objects, err := h.api.SearchCatalog(r.Context())
	if err != nil {
		h.logger.Error("catalog search failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	services := catalog.FromCatalogObjects(objects)
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// Grouped handles GET /api/services/grouped, the pre-grouped pricing view.
func (h *ServicesHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	objects, err := h.api.SearchCatalog(r.Context())
	if err != nil {
		h.logger.Error("catalog search failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	grouped := catalog.Grouped(catalog.FromCatalogObjects(objects))
	writeJSON(w, http.StatusOK, map[string]any{"categories": grouped})
}
