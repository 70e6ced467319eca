package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
)

// RespondError writes the uniform error envelope. Service errors carry their
// own status and code; anything else surfaces as a 500 internal_error.
func RespondError(c *gin.Context, err error) {
	c.JSON(apierr.StatusOf(err), gin.H{
		"error": err.Error(),
		"code":  apierr.CodeOf(err),
	})
}
