package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/storefront/backend/internal/domain"
	"github.com/storefront/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	productService *usecase.ProductService
	log            zerolog.Logger
}

// NewHandler creates a new HTTP handler. productService may be nil, in which case
// product endpoints answer 501.
func NewHandler(productService *usecase.ProductService, log zerolog.Logger) *Handler {
	return &Handler{
		productService: productService,
		log:            log,
	}
}

// ResolveVariantRequest is the body of a variant resolution request
type ResolveVariantRequest struct {
	Options domain.Selection `json:"options" binding:"required"`
}

// BrandResponse is returned by the brand endpoint
type BrandResponse struct {
	SKU   string `json:"sku"`
	Brand string `json:"brand"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-backend",
		"version": "1.0.0",
	})
}

// GetProduct returns a product with its variants enriched with parameters
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.available(c) {
		return
	}

	view, err := h.productService.GetProductView(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetBrand returns the brand of a product
func (h *Handler) GetBrand(c *gin.Context) {
	if !h.available(c) {
		return
	}

	sku := c.Param("sku")
	brand, err := h.productService.GetBrand(c.Request.Context(), sku)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, BrandResponse{SKU: sku, Brand: brand})
}

// ResolveVariant finds the variant matching the selected options
func (h *Handler) ResolveVariant(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req ResolveVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	resolution, err := h.productService.ResolveVariant(c.Request.Context(), c.Param("sku"), req.Options)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}

func (h *Handler) available(c *gin.Context) bool {
	if h.productService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "product service not configured",
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var missing *domain.MissingAttributeError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrBrandNotFound):
		status = http.StatusNotFound
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          err.Error(),
			"attribute_code": missing.Code,
			"variant":        missing.Position,
		})
		return
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogAPIFailure):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
