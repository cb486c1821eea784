package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"invoicegen-backend/logger"
	"invoicegen-backend/services"
	"invoicegen-backend/utils"
)

// respondError translates a service error into the JSON error body.
func respondError(c *gin.Context, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := se.Kind.HTTPStatus()
	switch se.Kind {
	case services.KindUpstream:
		utils.RespondWithUpstreamError(c, status, se.Message, se.Err)
	case services.KindInternal:
		logger.FromContext(c.Request.Context()).Error().Err(se.Err).Msg(se.Message)
		utils.RespondWithError(c, status, se.Message)
	default:
		utils.RespondWithError(c, status, se.Message)
	}
}

// bindJSON decodes the body into v and applies its binding tags. A body that
// fails a binding rule is answered with invalidMsg; malformed JSON with the
// decoder's error.
func bindJSON(c *gin.Context, v any, invalidMsg string) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && invalidMsg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, invalidMsg)
		return false
	}
	utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	return false
}
