package api

import (
	"checkout/api/cart"
	"checkout/api/health"
	"checkout/api/middleware"
	"checkout/api/order"
	"checkout/config"
	"checkout/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine           *gin.Engine
	config           *config.Config
	tokens           middleware.TokenParser
	metrics          *metrics.Metrics
	healthController *health.Controller
	orderController  *order.Controller
	cartController   *cart.Controller
}

func NewRouter(
	cfg *config.Config,
	tokens middleware.TokenParser,
	m *metrics.Metrics,
	healthController *health.Controller,
	orderController *order.Controller,
	cartController *cart.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Order matters: the request id must exist before anything logs.
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))
	if cfg.Metrics.Enabled {
		engine.Use(middleware.MetricsMiddleware(m))
	}

	return &Router{
		engine:           engine,
		config:           cfg,
		tokens:           tokens,
		metrics:          m,
		healthController: healthController,
		orderController:  orderController,
		cartController:   cartController,
	}
}

func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	r.healthController.RegisterRoutes(apiGroup, r.engine)

	customer := apiGroup.Group("", middleware.RequireUser(r.tokens))
	r.orderController.RegisterRoutes(customer)
	r.cartController.RegisterRoutes(customer)

	admin := apiGroup.Group("/admin", middleware.RequireUser(r.tokens), middleware.RequireAdmin())
	r.orderController.RegisterAdminRoutes(admin)

	if r.config.Metrics.Enabled {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
