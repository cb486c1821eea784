// controllers/auth.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicegen-backend/models"
	"invoicegen-backend/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input, "Please add all fields") {
		return
	}

	res, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":   res.User.ID,
		"name":  res.User.Name,
		"email": res.User.Email,
		"token": res.Token,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input, "Please add all fields") {
		return
	}

	res, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	body := profileJSON(res.User)
	body["token"] = res.Token
	c.JSON(http.StatusOK, body)
}

func profileJSON(u *models.User) gin.H {
	return gin.H{
		"_id":          u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"businessName": u.BusinessName,
		"address":      u.Address,
		"phoneNumber":  u.PhoneNumber,
	}
}
