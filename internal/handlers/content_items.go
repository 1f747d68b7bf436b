package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koyo-works/crm-backend/internal/auth"
	"github.com/koyo-works/crm-backend/internal/db"
	"github.com/koyo-works/crm-backend/internal/db/models"
	"github.com/koyo-works/crm-backend/internal/events"
)

type ContentItemCreateBody struct {
	ClientID         int64   `json:"client_id" binding:"required"`
	ContentType      string  `json:"content_type" binding:"required"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	InstagramPostURL string  `json:"instagram_post_url" binding:"required,url"`
}

type ContentItemUpdateBody struct {
	ContentType      string  `json:"content_type" binding:"required"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	InstagramPostURL string  `json:"instagram_post_url" binding:"required,url"`
}

// ListContentItems returns content items, optionally filtered by client_id.
// Non-admin results are joined through clients on ownership.
func (api *API) ListContentItems(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skip, limit := pagination(c)

	filter := db.ContentItemFilter{OwnerID: ownerFilter(p), Skip: skip, Limit: limit}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || clientID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client_id"})
			return
		}
		filter.ClientID = &clientID
	}

	items, err := db.ListContentItems(c.Request.Context(), api.Pool, filter)
	api.Metrics.ObserveQuery("content_item", "list", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to list content items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list content items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateContentItem attaches a new content item to a client the caller can
// access.
func (api *API) CreateContentItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body ContentItemCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !api.authorizeClientAccess(c, p, body.ClientID) {
		return
	}

	item := &models.ContentItem{
		ClientID:         body.ClientID,
		ContentType:      body.ContentType,
		Title:            body.Title,
		Description:      body.Description,
		InstagramPostURL: body.InstagramPostURL,
	}

	err := db.CreateContentItem(c.Request.Context(), api.Pool, item)
	api.Metrics.ObserveQuery("content_item", "create", err)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Client does not exist"})
			return
		}
		api.Logger.WithRequest(c).Error("Failed to create content item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create content item"})
		return
	}

	api.Logger.LogEntityMutation("content_item", "create", item.ID)
	api.Events.Publish(c.Request.Context(), events.TypeContentCreated, item.ID, p.UserID)
	c.JSON(http.StatusCreated, item)
}

// GetContentItem returns one content item; ownership resolves through the
// owning client.
func (api *API) GetContentItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item := api.loadAccessibleContentItem(c, p, id)
	if item == nil {
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateContentItem overwrites a content item's fields; ownership resolves
// through the owning client.
func (api *API) UpdateContentItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body ContentItemUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := api.loadAccessibleContentItem(c, p, id)
	if item == nil {
		return
	}

	item.ContentType = body.ContentType
	item.Title = body.Title
	item.Description = body.Description
	item.InstagramPostURL = body.InstagramPostURL

	updated, err := db.UpdateContentItem(c.Request.Context(), api.Pool, item)
	api.Metrics.ObserveQuery("content_item", "update", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to update content item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content item"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content item not found"})
		return
	}

	api.Logger.LogEntityMutation("content_item", "update", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// DeleteContentItem removes a content item; ownership resolves through the
// owning client.
func (api *API) DeleteContentItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item := api.loadAccessibleContentItem(c, p, id)
	if item == nil {
		return
	}

	deleted, err := db.DeleteContentItem(c.Request.Context(), api.Pool, id)
	api.Metrics.ObserveQuery("content_item", "delete", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to delete content item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content item"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content item not found"})
		return
	}

	api.Logger.LogEntityMutation("content_item", "delete", id)
	c.Status(http.StatusNoContent)
}

// authorizeClientAccess checks that the referenced client exists and is
// accessible to the caller. It writes the error response itself.
func (api *API) authorizeClientAccess(c *gin.Context, p auth.Principal, clientID int64) bool {
	client, err := db.GetClientByID(c.Request.Context(), api.Pool, clientID)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return false
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return false
	}
	if !p.IsAdmin() && client.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this client is not allowed"})
		return false
	}
	return true
}

// loadAccessibleContentItem loads a content item and authorizes the caller
// against its owning client. A nil return means the response has already
// been written.
func (api *API) loadAccessibleContentItem(c *gin.Context, p auth.Principal, id int64) *models.ContentItem {
	item, err := db.GetContentItemByID(c.Request.Context(), api.Pool, id)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load content item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load content item"})
		return nil
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content item not found"})
		return nil
	}

	if !api.authorizeClientAccess(c, p, item.ClientID) {
		return nil
	}
	return item
}
