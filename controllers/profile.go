package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/services"
	"invoicegen-backend/utils"
)

func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.auth.Me(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileJSON(user))
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var input services.UpdateProfileInput
	if !bindJSON(c, &input, "") {
		return
	}

	user, err := ac.auth.UpdateProfile(c.Request.Context(), utils.CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileJSON(user))
}
