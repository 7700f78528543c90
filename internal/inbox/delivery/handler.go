package delivery

import (
	"net/http"
	"strconv"

	"notify-backend/internal/inbox/domain"
	"notify-backend/internal/inbox/usecase"
	"notify-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// InboxHandler handles inbox HTTP requests for the authenticated user
type InboxHandler struct {
	inboxUsecase usecase.InboxUsecase
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(inboxUsecase usecase.InboxUsecase) *InboxHandler {
	return &InboxHandler{
		inboxUsecase: inboxUsecase,
	}
}

// SendMessageRequest represents the admin request body for a targeted send
type SendMessageRequest struct {
	UserIDs   []string `json:"user_ids" binding:"required,min=1"`
	Title     string   `json:"title" binding:"required"`
	Message   string   `json:"message" binding:"required"`
	ActionURL *string  `json:"action_url"`
}

// BroadcastMessageRequest represents the admin request body for an all-user send
type BroadcastMessageRequest struct {
	Title     string  `json:"title" binding:"required"`
	Message   string  `json:"message" binding:"required"`
	ActionURL *string `json:"action_url"`
}

// GetMessages returns a page of the caller's inbox
// GET /api/inbox?page=1&limit=20&unreadOnly=true
func (h *InboxHandler) GetMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageLimit)))
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unreadOnly", "false"))

	result, err := h.inboxUsecase.List(c.Request.Context(), c.GetString("userID"), domain.ListQuery{
		Page:       page,
		Limit:      limit,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UnreadCount GET /api/inbox/unread-count
func (h *InboxHandler) UnreadCount(c *gin.Context) {
	count, err := h.inboxUsecase.UnreadCount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead PUT /api/inbox/:id/read
func (h *InboxHandler) MarkRead(c *gin.Context) {
	msg, err := h.inboxUsecase.MarkRead(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// MarkAllRead PUT /api/inbox/read-all
func (h *InboxHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.inboxUsecase.MarkAllRead(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteMessage DELETE /api/inbox/:id
func (h *InboxHandler) DeleteMessage(c *gin.Context) {
	if err := h.inboxUsecase.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

// SendMessage writes one message per listed user (admin only)
// POST /api/admin/messages
func (h *InboxHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	count, err := h.inboxUsecase.SendToUsers(c.Request.Context(), req.UserIDs, h.draft(c, req.Title, req.Message, req.ActionURL))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": count})
}

// BroadcastMessage writes one message per user (admin only)
// POST /api/admin/messages/broadcast
func (h *InboxHandler) BroadcastMessage(c *gin.Context) {
	var req BroadcastMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	count, err := h.inboxUsecase.BroadcastToAll(c.Request.Context(), h.draft(c, req.Title, req.Message, req.ActionURL))
	if err != nil {
		if count > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "partial_broadcast", "count": count})
			return
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": count})
}

func (h *InboxHandler) draft(c *gin.Context, title, body string, actionURL *string) domain.Draft {
	senderID := c.GetString("userID")
	return domain.Draft{
		Title:     title,
		Body:      body,
		ActionURL: actionURL,
		SenderID:  &senderID,
	}
}
