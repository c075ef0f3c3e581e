package handlers

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

// MessageHandler handles chat requests.
type MessageHandler struct {
	Repo *repository.Repository
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(repo *repository.Repository) *MessageHandler {
	return &MessageHandler{Repo: repo}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	RecipientID    string `json:"recipientId" binding:"required"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachmentUrl"`
	AttachmentType string `json:"attachmentType" binding:"omitempty,oneof=image audio"`
}

// SendMessage sends a chat message to another user.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Content == "" && req.AttachmentURL == "" {
		utils.BadRequest(c, "Message needs content or an attachment")
		return
	}

	msg, err := h.Repo.SendMessage(c.Request.Context(), senderID, req.RecipientID,
		req.Content, req.AttachmentURL, models.AttachmentType(req.AttachmentType))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Message sent successfully", msg)
}

// GetConversation returns the message history between the caller and
// another user, oldest first.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	msgs, err := h.Repo.GetConversation(c.Request.Context(), userID, c.Param("userId"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Conversation retrieved successfully", msgs)
}
