// File: podgoro/handlers/chat.go
package handlers

import (
	"net/http"

	"podgoro/models"
	"podgoro/services/chat"
	"podgoro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler exposes the conversational endpoint.
type ChatHandler struct {
	Router chat.RouterService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(router chat.RouterService) *ChatHandler {
	return &ChatHandler{Router: router}
}

// HandleChat processes one guest message and returns the assistant reply.
func (ch *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	resp, err := ch.Router.Route(c.Request.Context(), req)
	if err != nil {
		getLogger(c).Error("chat routing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", "Please try again later.")
		return
	}
	c.JSON(http.StatusOK, resp)
}
