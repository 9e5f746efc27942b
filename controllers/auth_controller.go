package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace/config"
	"marketplace/logger"
	"marketplace/models"
	"marketplace/services"
)

const oauthStateCookie = "oauth_state"

type AuthController struct {
	auth     *services.AuthService
	provider services.IdentityProvider
	session  config.Session
	logger   *logger.Logger
}

// NewAuthController builds the controller. provider may be nil when Google
// sign-in is not configured.
func NewAuthController(auth *services.AuthService, provider services.IdentityProvider, session config.Session, log *logger.Logger) *AuthController {
	return &AuthController{
		auth:     auth,
		provider: provider,
		session:  session,
		logger:   log,
	}
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.session.CookieName, token, int(ctrl.session.TTL.Seconds()), "/", "", ctrl.session.CookieSecure, true)
}

func (ctrl *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetCookie(ctrl.session.CookieName, "", -1, "/", "", ctrl.session.CookieSecure, true)
}

func (ctrl *AuthController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (ctrl *AuthController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":         "Log in",
		"GoogleEnabled": ctrl.provider != nil,
	})
}

func (ctrl *AuthController) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title":         "Register",
		"GoogleEnabled": ctrl.provider != nil,
	})
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/register")
		return
	}

	user, token, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			c.Redirect(http.StatusFound, "/register")
			return
		}
		renderError(c, err)
		return
	}

	ctrl.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, user.LandingPath())
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, token, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		renderError(c, err)
		return
	}

	ctrl.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, user.LandingPath())
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(ctrl.session.CookieName); err == nil {
		if err := ctrl.auth.Logout(c.Request.Context(), token); err != nil {
			ctrl.logger.Warn("failed to delete session", "error", err)
		}
	}
	ctrl.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// GoogleStart sends the browser to the consent screen with a fresh state value
// that the callback checks against a short-lived cookie.
func (ctrl *AuthController) GoogleStart(c *gin.Context) {
	if ctrl.provider == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", ctrl.session.CookieSecure, true)
	c.Redirect(http.StatusFound, ctrl.provider.AuthCodeURL(state))
}

func (ctrl *AuthController) GoogleCallback(c *gin.Context) {
	if ctrl.provider == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", ctrl.session.CookieSecure, true)

	if reason := c.Query("error"); reason != "" {
		ctrl.logger.Info("google sign-in declined", "reason", reason)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if expected == "" || c.Query("state") != expected {
		ctrl.logger.Warn("google sign-in state mismatch")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	subject, err := ctrl.provider.Subject(c.Request.Context(), c.Query("code"))
	if err != nil {
		ctrl.logger.Warn("google sign-in failed", "error", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, token, err := ctrl.auth.LoginFederated(c.Request.Context(), subject)
	if err != nil {
		ctrl.logger.Error("federated login failed", "error", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ctrl.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, user.LandingPath())
}
