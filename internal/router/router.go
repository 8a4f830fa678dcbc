package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/motoparts-backend/config"
	"github.com/ikkim/motoparts-backend/internal/app/controller"
	"github.com/ikkim/motoparts-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

type route struct {
	method    string
	path      string
	protected bool
	handler   gin.HandlerFunc
}

type Router struct {
	authController    *controller.AuthController
	userController    *controller.UserController
	productController *controller.ProductController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	registry          *prometheus.Registry
	healthChecks      map[string]HealthCheck
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	productController *controller.ProductController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	registry *prometheus.Registry,
	healthChecks map[string]HealthCheck,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		userController:    userController,
		productController: productController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		registry:          registry,
		healthChecks:      healthChecks,
		config:            cfg,
	}
}

func (r *Router) routes() []route {
	return []route{
		{http.MethodPost, "/auth/login", false, r.authController.Login},
		{http.MethodPost, "/auth/password-reset", false, r.authController.RequestPasswordReset},
		{http.MethodPut, "/auth/reset-password/:userId/:resetToken", false, r.authController.ResetPassword},

		{http.MethodPost, "/users", false, r.userController.Register},
		{http.MethodGet, "/users", true, r.userController.ListUsers},
		{http.MethodGet, "/users/profile", true, r.userController.GetProfile},
		{http.MethodGet, "/users/:id", true, r.userController.GetUser},
		{http.MethodPut, "/users/:id", true, r.userController.UpdateUser},
		{http.MethodDelete, "/users/:id", true, r.userController.DeleteUser},

		{http.MethodPost, "/products", false, r.productController.CreateProduct},
		{http.MethodGet, "/products", false, r.productController.GetAllProducts},
		{http.MethodGet, "/products/:id", false, r.productController.GetProductByID},
		{http.MethodPut, "/products/:id", false, r.productController.UpdateProduct},
		{http.MethodDelete, "/products/:id", false, r.productController.DeleteProduct},

		{http.MethodPost, "/uploads/product-image", true, r.uploadController.PresignProductImage},
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	if r.config.Metrics.Enabled && r.registry != nil {
		router.Use(middleware.NewHTTPMetrics(r.registry).Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	router.GET("/health", r.health)

	for _, rt := range r.routes() {
		handlers := []gin.HandlerFunc{rt.handler}
		if rt.protected {
			handlers = append([]gin.HandlerFunc{r.authMiddleware.Authenticate()}, handlers...)
		}
		router.Handle(rt.method, rt.path, handlers...)
	}

	return router
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(r.healthChecks))
	for name, check := range r.healthChecks {
		if err := check(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Warn("Health check failed", map[string]interface{}{
				"component": name,
				"error":     err.Error(),
			})
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":     state,
		"components": components,
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
