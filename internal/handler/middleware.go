package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhythmicsouls/auth-gateway/internal/dto"
	"github.com/rhythmicsouls/auth-gateway/internal/service"
	"github.com/rhythmicsouls/auth-gateway/internal/utils"
)

// RequireSession validates the session cookie and adds the user to the
// request context. Requests without a valid session are rejected.
func RequireSession(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.ParseCookies(c.GetHeader("Cookie"))[sessionCookieName]
		if token == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Session cookie is required",
			})
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("email", user.Email)

		c.Next()
	}
}
