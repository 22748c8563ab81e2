package handlers

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/internal/domain/catalog"
	"inventory/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves the catalog snapshot that order forms load once.
type CatalogHandler struct {
	*BaseHandler
	store *catalog.Store
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		store:       store,
	}
}

// List returns every product of the current snapshot.
// GET /v1/catalog/products
func (h *CatalogHandler) List(c *gin.Context) {
	products := h.store.Snapshot().Products()
	h.OK(c, dto.ListResponse{Items: products, Count: len(products)})
}

// Refresh reloads the snapshot from its source.
// POST /v1/catalog/refresh
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		if apperror.IsAppError(err) {
			h.Error(c, err)
			return
		}
		h.Error(c, apperror.NewUnavailable("catalog refresh failed").WithCause(err))
		return
	}
	h.Success(c, "catalog refreshed")
}
