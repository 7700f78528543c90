package api

import (
	"notify-backend/internal/app"
	inboxDelivery "notify-backend/internal/inbox/delivery"
	pushDelivery "notify-backend/internal/push/delivery"
	"notify-backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	app          *app.App
	pushHandler  *pushDelivery.PushHandler
	inboxHandler *inboxDelivery.InboxHandler
}

func NewHandler(a *app.App) *Handler {
	InitRuntimeSettings(a)

	return &Handler{
		app:          a,
		pushHandler:  pushDelivery.NewPushHandler(a.Tokens, a.Preferences, a.Broadcaster, a.Scheduler),
		inboxHandler: inboxDelivery.NewInboxHandler(a.Inbox),
	}
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	if h.app.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.app, h.pushHandler, h.inboxHandler)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		zlog.Debug("[HTTP] Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}
