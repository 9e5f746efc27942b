package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/logger"
	"marketplace/models"
	"marketplace/web"
)

const currentUserKey = "current_user"

// SessionResolver turns a session cookie value into the signed-in user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware loads the user behind the session cookie. Requests without a
// valid session are sent to /login.
func AuthMiddleware(sessions SessionResolver, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		user, err := sessions.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrSessionInvalid) {
				c.SetCookie(cookieName, "", -1, "/", "", false, true)
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			log.Error("failed to resolve session", "error", err)
			web.AbortWithError(c, http.StatusInternalServerError, "")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireOwner rejects requests whose :userId is not the signed-in user.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || c.Param("userId") != user.ID.String() {
			web.AbortWithError(c, http.StatusForbidden, "You can only access your own pages.")
			return
		}
		c.Next()
	}
}

// RequireCategory admits only users of the given category. Users that have not
// picked a category yet are sent to onboarding.
func RequireCategory(category models.Category) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			web.AbortWithError(c, http.StatusForbidden, "")
			return
		}
		if user.Category == "" {
			c.Redirect(http.StatusFound, user.LandingPath())
			c.Abort()
			return
		}
		if user.Category != category {
			web.AbortWithError(c, http.StatusForbidden, "This page is for "+string(category)+" accounts.")
			return
		}
		c.Next()
	}
}
