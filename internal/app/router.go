package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"travelpay/internal/handler"
	"travelpay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler   *handler.BookingHandler
	SelectionHandler *handler.SelectionHandler
	CheckoutHandler  *handler.CheckoutHandler
	PaymentHandler   *handler.PaymentHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Idempotency-Key")
	router.Use(cors.New(corsConfig))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Pending booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/pending/:userId", deps.BookingHandler.GetPending)
		}

		// Selection routes.
		selection := v1.Group("/selection")
		{
			selection.GET("/:userId", deps.SelectionHandler.GetSelection)
			selection.POST("/:userId/toggle", deps.SelectionHandler.Toggle)
			selection.POST("/:userId/all", deps.SelectionHandler.SelectAll)
			selection.DELETE("/:userId", deps.SelectionHandler.Clear)
		}

		// Checkout routes.
		checkout := v1.Group("/checkout")
		{
			checkout.POST("/:userId/order", deps.CheckoutHandler.CreateOrder)
			checkout.POST("/:userId/callback", deps.CheckoutHandler.Callback)
			checkout.POST("/:userId/failure", deps.CheckoutHandler.Failure)
			checkout.POST("/:userId/cancel", deps.CheckoutHandler.Cancel)
			checkout.GET("/:userId/state", deps.CheckoutHandler.GetState)
		}

		// Payment history routes.
		payments := v1.Group("/payments")
		{
			payments.GET("/user/:userId", deps.PaymentHandler.ListForUser)
		}
	}

	return router
}
