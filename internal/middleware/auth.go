package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/handlers"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/services"
)

// Auth validates the bearer token and swaps in a request context carrying
// the authenticated user. The token may also arrive as a ?token= query
// param, which is how EventSource connections authenticate.
func Auth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenString = strings.TrimPrefix(h, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			handlers.RespondError(c, apierr.Unauthorized("missing access token"))
			c.Abort()
			return
		}

		ctx, err := authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			handlers.RespondError(c, err)
			c.Abort()
			return
		}
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			handlers.RespondError(c, apierr.Unauthorized("invalid session"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
