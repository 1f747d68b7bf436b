package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koyo-works/crm-backend/internal/db"
	"github.com/koyo-works/crm-backend/internal/db/models"
	"github.com/koyo-works/crm-backend/internal/events"
)

type ClientBody struct {
	Name                    string       `json:"name" binding:"required"`
	CompanyName             *string      `json:"company_name"`
	BusinessCategory        string       `json:"business_category" binding:"required"`
	ContactEmail            *string      `json:"contact_email"`
	ContactPhone            *string      `json:"contact_phone"`
	Status                  *string      `json:"status"`
	SignedDate              *models.Date `json:"signed_date"`
	EstimatedMonthlyRevenue *float64     `json:"estimated_monthly_revenue"`
}

func (b *ClientBody) apply(client *models.Client) {
	client.Name = b.Name
	client.CompanyName = b.CompanyName
	client.BusinessCategory = b.BusinessCategory
	client.ContactEmail = b.ContactEmail
	client.ContactPhone = b.ContactPhone
	client.Status = b.Status
	client.SignedDate = b.SignedDate
	client.EstimatedMonthlyRevenue = b.EstimatedMonthlyRevenue
}

// ListClients returns the caller's clients; admins see every client.
func (api *API) ListClients(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skip, limit := pagination(c)

	clients, err := db.ListClients(c.Request.Context(), api.Pool, ownerFilter(p), skip, limit)
	api.Metrics.ObserveQuery("client", "list", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient creates a client owned by the caller.
func (api *API) CreateClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body ClientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{UserID: p.UserID}
	body.apply(client)

	err := db.CreateClient(c.Request.Context(), api.Pool, client)
	api.Metrics.ObserveQuery("client", "create", err)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Owning user does not exist"})
			return
		}
		api.Logger.WithRequest(c).Error("Failed to create client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	api.Logger.LogEntityMutation("client", "create", client.ID)
	api.Events.Publish(c.Request.Context(), events.TypeClientCreated, client.ID, p.UserID)
	c.JSON(http.StatusCreated, client)
}

// GetClient returns one client, enforcing ownership for non-admins.
func (api *API) GetClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	client, err := db.GetClientByID(c.Request.Context(), api.Pool, id)
	api.Metrics.ObserveQuery("client", "get", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	if !p.IsAdmin() && client.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this client is not allowed"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient overwrites a client's fields, enforcing ownership for
// non-admins.
func (api *API) UpdateClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body ClientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := db.GetClientByID(c.Request.Context(), api.Pool, id)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	if !p.IsAdmin() && client.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this client is not allowed"})
		return
	}

	body.apply(client)
	updated, err := db.UpdateClient(c.Request.Context(), api.Pool, client)
	api.Metrics.ObserveQuery("client", "update", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to update client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	api.Logger.LogEntityMutation("client", "update", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// DeleteClient removes a client, enforcing ownership for non-admins.
func (api *API) DeleteClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	client, err := db.GetClientByID(c.Request.Context(), api.Pool, id)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	if !p.IsAdmin() && client.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this client is not allowed"})
		return
	}

	deleted, err := db.DeleteClient(c.Request.Context(), api.Pool, id)
	api.Metrics.ObserveQuery("client", "delete", err)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Client still has content items"})
			return
		}
		api.Logger.WithRequest(c).Error("Failed to delete client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	api.Logger.LogEntityMutation("client", "delete", id)
	c.Status(http.StatusNoContent)
}
