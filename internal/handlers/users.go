package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koyo-works/crm-backend/internal/auth"
	"github.com/koyo-works/crm-backend/internal/db"
	"github.com/koyo-works/crm-backend/internal/db/models"
)

type UserCreateBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
	Name     string `json:"name" binding:"required"`
	City     string `json:"city" binding:"required"`
}

// ListUsers returns a page of users. Admin only.
func (api *API) ListUsers(c *gin.Context) {
	skip, limit := pagination(c)

	users, err := db.ListUsers(c.Request.Context(), api.Pool, skip, limit)
	api.Metrics.ObserveQuery("user", "list", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser registers a new account. Admin only.
func (api *API) CreateUser(c *gin.Context) {
	var body UserCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := db.GetUserByEmail(c.Request.Context(), api.Pool, body.Email)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to check existing email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
		return
	}

	hashed, err := auth.HashPassword(body.Password)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &models.User{
		Email:          body.Email,
		Role:           body.Role,
		HashedPassword: hashed,
		Name:           body.Name,
		City:           body.City,
		IsActive:       true,
	}

	err = db.CreateUser(c.Request.Context(), api.Pool, user)
	api.Metrics.ObserveQuery("user", "create", err)
	if err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index has the final word.
		if db.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		api.Logger.WithRequest(c).Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	api.Logger.LogEntityMutation("user", "create", user.ID)
	c.JSON(http.StatusCreated, user)
}
