package api

import (
	"net/http"

	"notify-backend/internal/app"
	"notify-backend/internal/auth/delivery"
	inboxDelivery "notify-backend/internal/inbox/delivery"
	pushDelivery "notify-backend/internal/push/delivery"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, a *app.App, pushHandler *pushDelivery.PushHandler, inboxHandler *inboxDelivery.InboxHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Metrics.Registry(), promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Settings routes (public)
		api.GET("/settings/push", GetPushSettings)

		auth := delivery.AuthMiddleware(a.Auth)

		// Push routes (protected)
		push := api.Group("/push")
		push.Use(auth)
		{
			push.POST("/tokens", pushHandler.RegisterToken)
			push.POST("/tokens/enable", pushHandler.EnableToken)
			push.POST("/tokens/disable", pushHandler.DisableToken)
			push.GET("/preferences", pushHandler.GetPreferences)
			push.PUT("/preferences", pushHandler.UpdatePreferences)
			push.POST("/preferences/random-broadcast", pushHandler.SetRandomBroadcast)
			push.POST("/test", pushHandler.SendTestPush)
		}

		// Inbox routes (protected)
		inbox := api.Group("/inbox")
		inbox.Use(auth)
		{
			inbox.GET("", inboxHandler.GetMessages)
			inbox.GET("/unread-count", inboxHandler.UnreadCount)
			inbox.PUT("/read-all", inboxHandler.MarkAllRead)
			inbox.PUT("/:id/read", inboxHandler.MarkRead)
			inbox.DELETE("/:id", inboxHandler.DeleteMessage)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(auth, delivery.AdminOnly())
		{
			admin.POST("/messages", inboxHandler.SendMessage)
			admin.POST("/messages/broadcast", inboxHandler.BroadcastMessage)
			admin.GET("/broadcast/status", pushHandler.BroadcastStatus)
			admin.POST("/broadcast/run", pushHandler.RunBroadcast)
		}
	}
}
