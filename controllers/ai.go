package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/services"
	"invoicegen-backend/utils"
)

type ParseInvoiceInput struct {
	Text string `json:"text" binding:"required"`
}

type GenerateReminderInput struct {
	InvoiceID     string `json:"invoiceId" binding:"required"`
	CustomMessage string `json:"customMessage"`
}

type AIController struct {
	ai *services.AIService
}

func NewAIController(ai *services.AIService) *AIController {
	return &AIController{ai: ai}
}

func (ac *AIController) ParseInvoice(c *gin.Context) {
	var input ParseInvoiceInput
	if !bindJSON(c, &input, "Text is required") {
		return
	}

	draft, err := ac.ai.ParseInvoiceText(c.Request.Context(), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"parsedData": draft,
	})
}

func (ac *AIController) GenerateReminder(c *gin.Context) {
	var input GenerateReminderInput
	if !bindJSON(c, &input, "Invoice ID is required") {
		return
	}

	email, invoice, err := ac.ai.GenerateReminder(c.Request.Context(), utils.CurrentUserID(c), input.InvoiceID, input.CustomMessage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"email":         email,
		"invoiceNumber": invoice.InvoiceNumber,
	})
}
