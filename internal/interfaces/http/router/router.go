// Package router assembles the gin engine: global middleware, probes and
// the versioned API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdantmarket/backend/internal/infrastructure/auth"
	"github.com/verdantmarket/backend/internal/infrastructure/config"
	"github.com/verdantmarket/backend/internal/infrastructure/logger"
	"github.com/verdantmarket/backend/internal/interfaces/http/handler"
	"github.com/verdantmarket/backend/internal/interfaces/http/middleware"
)

// Handlers groups the handlers the router mounts
type Handlers struct {
	System     *handler.SystemHandler
	Onboarding *handler.OnboardingHandler
	Product    *handler.ProductHandler
	Order      *handler.OrderHandler
}

// Setup builds the gin engine with all middleware and routes registered
func Setup(cfg *config.Config, zapLogger *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}
	engine.Use(logger.Recovery(zapLogger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(zapLogger))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Onboarding runs before the vendor has credentials, so it stays outside
	// the auth fence along with the probes.
	engine.Use(middleware.VendorAuth(jwtService, "/health", "/api/v1/vendor/onboarding"))

	engine.GET("/health", h.System.Health)
	engine.GET("/health/ready", h.System.Ready)

	v1 := engine.Group("/api/v1/vendor")

	onboarding := v1.Group("/onboarding/sessions")
	{
		onboarding.POST("", h.Onboarding.Start)
		onboarding.GET("/:id", h.Onboarding.Get)
		onboarding.POST("/:id/steps", h.Onboarding.SubmitStep)
		onboarding.POST("/:id/back", h.Onboarding.GoBack)
		onboarding.POST("/:id/skip-product", h.Onboarding.SkipProduct)
		onboarding.POST("/:id/variants", h.Onboarding.AddVariant)
		onboarding.DELETE("/:id/variants", h.Onboarding.RemoveVariant)
		onboarding.PUT("/:id/variants", h.Onboarding.UpdateVariant)
		onboarding.PUT("/:id/variants/default", h.Onboarding.SetDefaultVariant)
		onboarding.POST("/:id/complete", h.Onboarding.Complete)
	}

	products := v1.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.PUT("/:id/stock", h.Product.UpdateStock)
		products.PUT("/:id/status", h.Product.SetActive)
		products.POST("/:id/variants", h.Product.AddVariant)
		products.DELETE("/:id/variants/:index", h.Product.RemoveVariant)
		products.PUT("/:id/variants/:index/default", h.Product.SetDefaultVariant)
	}

	orders := v1.Group("/orders")
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/stats", h.Order.Stats)
		orders.GET("/number/:number", h.Order.GetByNumber)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.PUT("/:id/tracking", h.Order.SetTracking)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/return", h.Order.Return)
		orders.POST("/:id/refund", h.Order.Refund)
		orders.POST("/:id/payment/paid", h.Order.MarkPaid)
		orders.POST("/:id/payment/failed", h.Order.MarkPaymentFailed)
	}

	return engine
}
