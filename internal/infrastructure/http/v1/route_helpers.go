package v1

import (
	"github.com/gin-gonic/gin"
)

// PricingRouteHandler defines the draft editing operations of an order form.
type PricingRouteHandler interface {
	New(c *gin.Context)
	AddLine(c *gin.Context)
	UpdateLine(c *gin.Context)
	RemoveLine(c *gin.Context)
	SetAdjustment(c *gin.Context)
	Totals(c *gin.Context)
	Hydrate(c *gin.Context)
}

// SubmissionRouteHandler is an optional interface for handlers that can
// build the order API payload.
type SubmissionRouteHandler interface {
	Submission(c *gin.Context)
}

// CatalogRouteHandler defines the read side of the product catalog.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Refresh(c *gin.Context)
}

// RegisterPricingRoutes registers the draft routes under a group whose path
// carries the :kind parameter.
// If the handler also implements SubmissionRouteHandler, the submission route
// is registered as well.
//
// Usage:
//
//	handler := handlers.NewPricingHandler(service)
//	RegisterPricingRoutes(api.Group("/pricing/:kind"), handler)
func RegisterPricingRoutes(group *gin.RouterGroup, handler PricingRouteHandler) {
	group.POST("/new", handler.New)
	group.POST("/lines", handler.AddLine)
	group.PATCH("/lines/:index", handler.UpdateLine)
	group.DELETE("/lines/:index", handler.RemoveLine)
	group.POST("/adjustments", handler.SetAdjustment)
	group.POST("/totals", handler.Totals)
	group.POST("/hydrate", handler.Hydrate)

	if sub, ok := handler.(SubmissionRouteHandler); ok {
		group.POST("/submission", sub.Submission)
	}
}

// RegisterCatalogRoutes registers the catalog snapshot routes.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("/products", handler.List)
	group.POST("/refresh", handler.Refresh)
}
