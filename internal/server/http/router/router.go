package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	registryHandler := handlers.NewRegistryHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/ping", healthHandler.Ping)
	api.GET("/payment-modes", registryHandler.PaymentModes)
	api.GET("/delivery-slots", registryHandler.DeliverySlots)

	customer := api.Group("")
	customer.Use(middleware.AuthRequired(facade))
	customer.GET("/cart", cartHandler.Get)
	customer.PUT("/cart", cartHandler.Save)
	customer.DELETE("/cart", cartHandler.Clear)
	customer.POST("/cart/items", cartHandler.AddItem)
	customer.POST("/cart/validate", cartHandler.Validate)
	customer.POST("/orders/place", orderHandler.Place)
	customer.GET("/orders", orderHandler.List)
	customer.GET("/orders/:number", orderHandler.Get)
	customer.GET("/addresses", registryHandler.Addresses)
	customer.POST("/addresses", registryHandler.CreateAddress)

	admin := api.Group("/orders")
	admin.Use(middleware.AdminRequired(facade))
	admin.PATCH("/:number/status", orderHandler.UpdateStatus)
	admin.DELETE("/:number", orderHandler.Delete)

	return engine
}
