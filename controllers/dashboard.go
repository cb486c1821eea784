package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/utils"
)

func (ac *AIController) GetDashboardSummary(c *gin.Context) {
	summary, err := ac.ai.DashboardSummary(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"statistics": summary.Statistics,
		"insights":   summary.Insights,
	})
}
