package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dashledger/internal/api/handler"
	"github.com/dashledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	entryHandler *handler.EntryHandler,
	rollupHandler *handler.RollupHandler,
	goalHandler *handler.GoalHandler,
	settingsHandler *handler.SettingsHandler,
	oauthHandler *handler.OAuthHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	api := r.Group("/api")
	{
		// Ledger entry operations
		entries := api.Group("/entries")
		{
			entries.POST("", entryHandler.Create)
			entries.GET("", entryHandler.List)
			entries.GET("/:id", entryHandler.GetByID)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
			entries.DELETE("", entryHandler.DeleteAll)
		}

		// Aggregate summary
		api.GET("/rollup", rollupHandler.Get)

		// Profit goals, keyed by timeframe
		goals := api.Group("/goals")
		{
			goals.POST("", goalHandler.Upsert)
			goals.GET("/:timeframe", goalHandler.Get)
			goals.PUT("/:timeframe", goalHandler.UpdateTarget)
			goals.DELETE("/:timeframe", goalHandler.Delete)
		}

		// Settings singleton
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)

		// Platform OAuth connections
		oauth := api.Group("/oauth")
		{
			oauth.GET("/status", oauthHandler.Status)
			oauth.GET("/:platform/authorize", oauthHandler.Authorize)
			oauth.GET("/:platform/callback", oauthHandler.Callback)
			oauth.DELETE("/:platform/disconnect", oauthHandler.Disconnect)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
