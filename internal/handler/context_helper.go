package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-plan-api/internal/middleware"
	"github.com/noah-isme/study-plan-api/internal/models"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
	"github.com/noah-isme/study-plan-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// currentUserID writes 401 and returns false when the request carries no verified identity.
func currentUserID(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// bindJSON decodes the body or writes a 400 with the given message.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
