package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koyo-works/crm-backend/internal/auth"
	"github.com/koyo-works/crm-backend/internal/db"
)

// LoginForm follows the OAuth2 password flow: the username field carries the
// user's email address.
type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login verifies credentials and issues an access token.
func (api *API) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := db.GetUserByEmail(c.Request.Context(), api.Pool, form.Username)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load user for login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	if user == nil || !auth.VerifyPassword(form.Password, user.HashedPassword) {
		api.Logger.LogUserLogin(form.Username, false)
		api.Metrics.ObserveLogin(false)
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	if !user.IsActive {
		api.Logger.LogUserLogin(form.Username, false)
		api.Metrics.ObserveLogin(false)
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Inactive user account"})
		return
	}

	token, err := api.Tokens.CreateToken(user)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to create token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	api.Logger.LogUserLogin(form.Username, true)
	api.Metrics.ObserveLogin(true)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me echoes the authenticated principal.
func (api *API) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.UserID, "role": p.Role, "city": p.City})
}
