package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/storefront/backend/config"
	"github.com/storefront/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if m != nil {
		router.Use(MetricsMiddleware(m))
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products")
		{
			products.GET("/:sku", handler.GetProduct)
			products.GET("/:sku/brand", handler.GetBrand)
			products.POST("/:sku/variant", handler.ResolveVariant)
		}
	}

	return router
}
