// controllers/reminder.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/services"
	"invoicegen-backend/utils"
)

// MessageController sends stock or custom messages to an invoice's client.
type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	var input services.SendMessageInput
	if !bindJSON(c, &input, "Invalid message type. Must be one of: reminder, thankYou, followUp") {
		return
	}

	entry, err := mc.messages.Send(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": entry,
	})
}

func (mc *MessageController) GetMessages(c *gin.Context) {
	logs, err := mc.messages.List(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
