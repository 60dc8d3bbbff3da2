package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/server/handlers"
	"github.com/anarmmdv/bazar/internal/service/auth"
)

// Handlers bundles the HTTP adapters wired into the engine.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Products *handlers.ProductsHandler
	Today    *handlers.TodayHandler
	Analysis *handlers.AnalysisHandler
}

// New wires the Gin engine with required routes and middlewares. Every
// screen except login sits behind the session gate.
func New(h Handlers, sessions *auth.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(requireSession(sessions))

	protected.POST("/auth/logout", h.Auth.Logout)

	protected.GET("/products", h.Products.List)
	protected.POST("/products", h.Products.Create)
	protected.PUT("/products/:id/name", h.Products.Rename)
	protected.PUT("/products/:id/active", h.Products.SetActive)

	protected.GET("/today", h.Today.Get)
	protected.PUT("/today/rows/:table", h.Today.PutRows)
	protected.POST("/today/rows/:table", h.Today.AddRow)
	protected.DELETE("/today/rows/:table/:index", h.Today.RemoveRow)

	protected.GET("/analysis", h.Analysis.Get)
	protected.POST("/analysis/export", h.Analysis.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requireSession rejects requests whose bearer token does not match the
// live session.
func requireSession(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == token || !sessions.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
