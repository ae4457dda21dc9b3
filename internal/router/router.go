// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/taxonomy-admin/internal/config"
	"github.com/javajoker/taxonomy-admin/internal/handlers"
	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/metrics"
	"github.com/javajoker/taxonomy-admin/internal/middleware"
	"github.com/javajoker/taxonomy-admin/internal/services"
)

const version = "1.0.0"

func Initialize(cfg *config.Config, m *metrics.Metrics, catalogue services.Catalogue) (*gin.Engine, *services.SessionService) {
	// Initialize services
	formService := services.NewFormService(m)
	sessionService := services.NewSessionService(catalogue, m, cfg.SessionTTL())

	// Initialize handlers
	formHandler := handlers.NewFormHandler(formService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(m))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"sessions":  sessionService.Count(),
			"languages": i18n.GetSupportedLanguages(),
		})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(limiter.Middleware())
	{
		// Stateless engine routes
		forms := v1.Group("/forms")
		{
			forms.POST("/validate", formHandler.Validate)
			forms.POST("/evaluate", formHandler.Evaluate)
			forms.POST("/schema", formHandler.DescribeSchema)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("/:categoryId/types", sessionHandler.ListProductTypes)
		}

		// Edit session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.PUT("/:id/product-type", sessionHandler.UpdateProductType)
			sessions.POST("/:id/save", sessionHandler.Save)

			// Add field flow
			sessions.POST("/:id/draft", sessionHandler.OpenDraft)
			sessions.PATCH("/:id/draft", sessionHandler.UpdateDraft)
			sessions.POST("/:id/draft/commit", sessionHandler.CommitDraft)
			sessions.DELETE("/:id/draft", sessionHandler.CancelDraft)

			// Fields, addressed by entry key or "draft"
			fields := sessions.Group("/:id/fields/:key")
			{
				fields.PATCH("", sessionHandler.UpdateField)
				fields.DELETE("", sessionHandler.RemoveField)
				fields.POST("/toggle", sessionHandler.ToggleField)
				fields.PUT("/validation-rules", sessionHandler.SetValidationRule)
				fields.PUT("/properties", sessionHandler.SetFieldProperty)
				fields.PUT("/condition", sessionHandler.SetConditionalRule)
				fields.GET("/candidates", sessionHandler.DependencyCandidates)
				fields.POST("/options", sessionHandler.AddOption)
				fields.PATCH("/options/:index", sessionHandler.UpdateOption)
				fields.DELETE("/options/:index", sessionHandler.RemoveOption)
			}

			// Preview
			previews := sessions.Group("/:id/preview")
			{
				previews.GET("", sessionHandler.GetPreview)
				previews.PUT("/values", sessionHandler.SetPreviewValues)
				previews.POST("/validate", sessionHandler.ValidatePreview)
				previews.POST("/reset", sessionHandler.ResetPreview)
				previews.PUT("/window", sessionHandler.SetWindowState)
				previews.POST("/window/gesture", sessionHandler.WindowGesture)
			}
		}
	}

	return r, sessionService
}
