package api

import (
	"net/http"
	"sync"

	"notify-backend/internal/app"
	pushUsecase "notify-backend/internal/push/usecase"

	"github.com/gin-gonic/gin"
)

// PushSettings is the public view clients use to decide whether to ask for
// notification permission
type PushSettings struct {
	PushEnabled       bool     `json:"push_enabled"`
	BroadcastEnabled  bool     `json:"broadcast_enabled"`
	BroadcastInterval string   `json:"broadcast_interval"`
	Languages         []string `json:"languages"`
}

var (
	runtimeSettings     PushSettings
	runtimeSettingsLock sync.RWMutex
)

// InitRuntimeSettings captures settings from the wired application
func InitRuntimeSettings(a *app.App) {
	runtimeSettingsLock.Lock()
	defer runtimeSettingsLock.Unlock()
	runtimeSettings = PushSettings{
		PushEnabled:       a.Broadcaster.PushEnabled(),
		BroadcastEnabled:  a.Config.BroadcastEnabled && a.Broadcaster.PushEnabled(),
		BroadcastInterval: a.Config.BroadcastInterval.String(),
		Languages:         []string{pushUsecase.LanguagePrimary, pushUsecase.LanguageLocalized},
	}
}

// GetPushSettings returns the current push configuration
// GET /api/settings/push
func GetPushSettings(c *gin.Context) {
	runtimeSettingsLock.RLock()
	defer runtimeSettingsLock.RUnlock()

	c.JSON(http.StatusOK, runtimeSettings)
}
