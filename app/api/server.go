package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for the browser UI
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// News endpoints
	r.GET("/news", handler.GetNews)
	r.GET("/news/trending", handler.GetTrending)
	r.GET("/news/category/:category", handler.GetNewsByCategory)

	// Recommendation endpoints (conditionally behind authentication,
	// since they expose a user's saved-content signals)
	recommendations := r.Group("/recommendations")
	if apiAccessKey != "" {
		recommendations.Use(authMiddleware(apiAccessKey))
		slog.Info("Recommendation endpoints enabled with authentication")
	} else {
		slog.Info("Recommendation endpoints enabled without authentication (API_ACCESS_KEY not set)")
	}
	{
		recommendations.GET("/personalized", handler.GetPersonalized)
		recommendations.GET("/similar/:bookmarkId", handler.GetSimilar)
		recommendations.GET("/topic/:topic", handler.GetTopic)
		recommendations.GET("/discover", handler.GetDiscover)
	}

	// Health and status endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "Bookmarkr Platform",
			"description": "Content aggregation and recommendation service",
			"endpoints": map[string]string{
				"news":         "/news",
				"trending":     "/news/trending?limit=<n>",
				"category":     "/news/category/<category>",
				"personalized": "/recommendations/personalized?limit=<n>",
				"similar":      "/recommendations/similar/<bookmarkId>?limit=<n>",
				"topic":        "/recommendations/topic/<topic>?limit=<n>",
				"discover":     "/recommendations/discover?limit=<n>",
				"health":       "/health",
				"stats":        "/stats",
				"metrics":      "/metrics",
			},
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for protected endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
