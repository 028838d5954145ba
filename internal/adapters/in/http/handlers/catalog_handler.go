// internal/adapters/in/http/handlers/catalog_handler.go
package handlers

import (
	"net/http"
	"strings"

	"quickbite/internal/application/usecase"
)

// CatalogHandler serves the public read-only catalog.
//
//	GET /restaurants                      listing (?q= name filter)
//	GET /restaurants/{id}/menu            one restaurant's menu (?q= item filter)
type CatalogHandler struct {
	catalog *usecase.CatalogUsecase
}

func NewCatalogHandler(catalog *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		internalError(w, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	if path == "/restaurants" {
		h.handleList(w, r)
		return
	}

	rest := strings.TrimPrefix(path, "/restaurants/")
	if id, ok := strings.CutSuffix(rest, "/menu"); ok && rest != path {
		h.handleMenu(w, r, id)
		return
	}

	notFound(w)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.catalog.ListRestaurants(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		internalError(w, "could not load restaurants")
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *CatalogHandler) handleMenu(w http.ResponseWriter, r *http.Request, restaurantID string) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		badRequest(w, "restaurantId is required")
		return
	}

	m, err := h.catalog.GetMenu(r.Context(), restaurantID, r.URL.Query().Get("q"))
	if err != nil {
		internalError(w, "could not load menu")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
