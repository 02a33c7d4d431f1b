package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	identity *services.IdentityService
	auth     *services.AuthService
	kind     models.Kind
	logger   logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *services.IdentityService, auth *services.AuthService, kind models.Kind, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		auth:     auth,
		kind:     kind,
		logger:   logger,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register.html", newPage(c, h.kind, "Register"))
}

// Register creates a user and sends them to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")

	_, err := h.identity.Register(services.RegisterInput{
		Username: username,
		Password: c.PostForm("password"),
	})
	switch {
	case err == nil:
		middleware.AddFlash(c, middleware.FlashSuccess, "Registration successful!")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, services.ErrUsernameTaken):
		middleware.AddFlash(c, middleware.FlashDanger, "Username already exists!")
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, services.ErrValidation):
		p := newPage(c, h.kind, "Register", danger("Username and password are required."))
		p.Username = username
		render(c, http.StatusUnprocessableEntity, "register.html", p)
	default:
		h.logger.Error(c.Request.Context(), "registration failed", "error", err)
		middleware.AddFlash(c, middleware.FlashDanger, "Registration failed, please try again.")
		c.Redirect(http.StatusFound, "/")
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", newPage(c, h.kind, "Login"))
}

// Login verifies credentials and stores the session token in the cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	sess, err := h.auth.Login(services.LoginInput{
		Username: username,
		Password: c.PostForm("password"),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			p := newPage(c, h.kind, "Login", danger("Invalid username or password"))
			p.Username = username
			render(c, http.StatusUnauthorized, "login.html", p)
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		middleware.AddFlash(c, middleware.FlashDanger, "Login failed, please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	cookie := sessions.Default(c)
	if previous, ok := cookie.Get(constants.SessionKeyToken).(string); ok {
		_ = h.auth.Logout(previous)
	}
	cookie.Set(constants.SessionKeyToken, sess.Token)
	cookie.AddFlash(middleware.Flash{Category: middleware.FlashSuccess, Message: "Login successful!"})
	if err := cookie.Save(); err != nil {
		_ = h.auth.Logout(sess.Token)
		h.logger.Error(c.Request.Context(), "failed to save session cookie", "error", err)
		c.String(http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Info(c.Request.Context(), "user logged in", "user_id", sess.Identity.UserID)
	c.Redirect(http.StatusFound, "/")
}

// Logout invalidates the session. Calling it while logged out is harmless.
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie := sessions.Default(c)
	if token, ok := cookie.Get(constants.SessionKeyToken).(string); ok {
		if err := h.auth.Logout(token); err != nil {
			h.logger.Warn(c.Request.Context(), "failed to drop session", "error", err)
		}
		cookie.Delete(constants.SessionKeyToken)
	}

	middleware.AddFlash(c, middleware.FlashInfo, "You have logged out.")
	c.Redirect(http.StatusFound, "/login")
}
