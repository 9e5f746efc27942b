package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/models"
	"marketplace/services"
)

// ProfileController handles onboarding for federated users that have no
// category yet.
type ProfileController struct {
	auth *services.AuthService
}

func NewProfileController(auth *services.AuthService) *ProfileController {
	return &ProfileController{auth: auth}
}

func (ctrl *ProfileController) Form(c *gin.Context) {
	user := currentUser(c)
	if user.Category != "" {
		c.Redirect(http.StatusFound, user.LandingPath())
		return
	}

	c.HTML(http.StatusOK, "profile.html", page(user, "Complete your profile", gin.H{
		"Action": "/" + user.ID.String() + "/profile",
		"Name":   user.Name,
	}))
}

func (ctrl *ProfileController) Submit(c *gin.Context) {
	user := currentUser(c)

	var req models.ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/"+user.ID.String()+"/profile")
		return
	}

	updated, err := ctrl.auth.CompleteProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, models.ErrCategoryAlreadySet) {
			c.Redirect(http.StatusFound, user.LandingPath())
			return
		}
		renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, updated.LandingPath())
}
