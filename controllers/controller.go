package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace/middleware"
	"marketplace/models"
	"marketplace/web"
)

// page builds template data shared by every signed-in page.
func page(user *models.User, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Links"] = models.NewNavLinks(user.ID.String())
	return data
}

// renderError maps service errors to an error page. Unexpected errors are
// attached to the context so the request logger records them.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		web.AbortWithError(c, http.StatusNotFound, "The page or item you asked for does not exist.")
	case errors.Is(err, models.ErrForbidden):
		web.AbortWithError(c, http.StatusForbidden, "You can only change your own items.")
	default:
		_ = c.Error(err)
		web.AbortWithError(c, http.StatusInternalServerError, "")
	}
}

// itemIDParam parses :itemId. A malformed id cannot name an item, so it is a 404.
func itemIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		web.AbortWithError(c, http.StatusNotFound, "No such item.")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}
