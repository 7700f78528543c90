package delivery

import (
	"context"
	"net/http"

	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/scheduler"
	"notify-backend/internal/push/usecase"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// BroadcastControl is the scheduler surface exposed to admins
type BroadcastControl interface {
	RunOnce(ctx context.Context) (domain.CycleReport, error)
	Status() scheduler.Status
}

// PushHandler handles device token, preference and test push requests
type PushHandler struct {
	registry    *usecase.TokenRegistry
	preferences *usecase.PreferenceService
	broadcaster *usecase.Broadcaster
	control     BroadcastControl
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(
	registry *usecase.TokenRegistry,
	preferences *usecase.PreferenceService,
	broadcaster *usecase.Broadcaster,
	control BroadcastControl,
) *PushHandler {
	return &PushHandler{
		registry:    registry,
		preferences: preferences,
		broadcaster: broadcaster,
		control:     control,
	}
}

// RegisterTokenRequest represents the request body for registering a device token
type RegisterTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
	Enabled  *bool  `json:"enabled"` // defaults to true
}

type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type RandomBroadcastRequest struct {
	Enabled         *bool  `json:"enabled" binding:"required"`
	IntervalMinutes *int   `json:"interval_minutes"`
	Platform        string `json:"platform"`
}

// RegisterToken stores or refreshes a device token
// POST /api/push/tokens
func (h *PushHandler) RegisterToken(c *gin.Context) {
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	token, err := h.registry.RegisterToken(c.Request.Context(), c.GetString("userID"), req.Token, req.Platform, enabled)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// EnableToken POST /api/push/tokens/enable
func (h *PushHandler) EnableToken(c *gin.Context) {
	h.setEnabled(c, true)
}

// DisableToken POST /api/push/tokens/disable
func (h *PushHandler) DisableToken(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *PushHandler) setEnabled(c *gin.Context, enabled bool) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	token, err := h.registry.SetEnabled(c.Request.Context(), c.GetString("userID"), req.Token, enabled)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// GetPreferences GET /api/push/preferences
func (h *PushHandler) GetPreferences(c *gin.Context) {
	pref, err := h.preferences.GetPreferences(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// UpdatePreferences merges the supplied fields
// PUT /api/push/preferences
func (h *PushHandler) UpdatePreferences(c *gin.Context) {
	var update domain.PreferenceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, err)
		return
	}

	pref, err := h.preferences.SetPreferences(c.Request.Context(), c.GetString("userID"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// SetRandomBroadcast POST /api/push/preferences/random-broadcast
func (h *PushHandler) SetRandomBroadcast(c *gin.Context) {
	var req RandomBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	pref, err := h.preferences.SetRandomBroadcast(c.Request.Context(), c.GetString("userID"), *req.Enabled, req.IntervalMinutes, req.Platform)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// SendTestPush sends a random content push to the caller's latest device
// POST /api/push/test
func (h *PushHandler) SendTestPush(c *gin.Context) {
	res, err := h.broadcaster.SendTestPush(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "test notification sent",
		"title":   res.Message.Title,
		"body":    res.Message.Body,
		"data":    res.Message.Data,
		"content": res.Content,
	})
}

// BroadcastStatus GET /api/admin/broadcast/status
func (h *PushHandler) BroadcastStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.control.Status())
}

// RunBroadcast runs one cycle now; 409 while another is in flight.
// A failed cycle is reported with its error status and the cycle report.
// POST /api/admin/broadcast/run
func (h *PushHandler) RunBroadcast(c *gin.Context) {
	report, err := h.control.RunOnce(context.WithoutCancel(c.Request.Context()))
	if err != nil && report.Outcome == "" {
		response.Error(c, err)
		return
	}
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), gin.H{
			"error":  err.Error(),
			"code":   string(apperror.KindOf(err)),
			"report": report,
		})
		return
	}
	c.JSON(http.StatusOK, report)
}
