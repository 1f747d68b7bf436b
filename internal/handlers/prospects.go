package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koyo-works/crm-backend/internal/db"
	"github.com/koyo-works/crm-backend/internal/db/models"
	"github.com/koyo-works/crm-backend/internal/events"
)

type ProspectBody struct {
	Name             string       `json:"name" binding:"required"`
	CompanyName      *string      `json:"company_name"`
	BusinessCategory string       `json:"business_category" binding:"required"`
	ContactEmail     *string      `json:"contact_email"`
	ContactPhone     *string      `json:"contact_phone"`
	InterestLevel    *string      `json:"interest_level"`
	Status           string       `json:"status" binding:"required"`
	NextFollowUpDate *models.Date `json:"next_follow_up_date"`
	Notes            *string      `json:"notes"`
}

func (b *ProspectBody) apply(prospect *models.Prospect) {
	prospect.Name = b.Name
	prospect.CompanyName = b.CompanyName
	prospect.BusinessCategory = b.BusinessCategory
	prospect.ContactEmail = b.ContactEmail
	prospect.ContactPhone = b.ContactPhone
	prospect.InterestLevel = b.InterestLevel
	prospect.Status = b.Status
	prospect.NextFollowUpDate = b.NextFollowUpDate
	prospect.Notes = b.Notes
}

// ListProspects returns the caller's prospects; admins see every prospect.
func (api *API) ListProspects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	skip, limit := pagination(c)

	prospects, err := db.ListProspects(c.Request.Context(), api.Pool, ownerFilter(p), skip, limit)
	api.Metrics.ObserveQuery("prospect", "list", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to list prospects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list prospects"})
		return
	}
	c.JSON(http.StatusOK, prospects)
}

// CreateProspect creates a prospect owned by the caller.
func (api *API) CreateProspect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var body ProspectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prospect := &models.Prospect{UserID: p.UserID}
	body.apply(prospect)

	err := db.CreateProspect(c.Request.Context(), api.Pool, prospect)
	api.Metrics.ObserveQuery("prospect", "create", err)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Owning user does not exist"})
			return
		}
		api.Logger.WithRequest(c).Error("Failed to create prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prospect"})
		return
	}

	api.Logger.LogEntityMutation("prospect", "create", prospect.ID)
	api.Events.Publish(c.Request.Context(), events.TypeProspectCreated, prospect.ID, p.UserID)
	c.JSON(http.StatusCreated, prospect)
}

// GetProspect returns one prospect, enforcing ownership for non-admins.
func (api *API) GetProspect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	prospect, err := db.GetProspectByID(c.Request.Context(), api.Pool, id)
	api.Metrics.ObserveQuery("prospect", "get", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prospect"})
		return
	}
	if prospect == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		return
	}
	if !p.IsAdmin() && prospect.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this prospect is not allowed"})
		return
	}

	c.JSON(http.StatusOK, prospect)
}

// UpdateProspect overwrites a prospect's fields, enforcing ownership for
// non-admins.
func (api *API) UpdateProspect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body ProspectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prospect, err := db.GetProspectByID(c.Request.Context(), api.Pool, id)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prospect"})
		return
	}
	if prospect == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		return
	}
	if !p.IsAdmin() && prospect.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this prospect is not allowed"})
		return
	}

	body.apply(prospect)
	updated, err := db.UpdateProspect(c.Request.Context(), api.Pool, prospect)
	api.Metrics.ObserveQuery("prospect", "update", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to update prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prospect"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		return
	}

	api.Logger.LogEntityMutation("prospect", "update", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// DeleteProspect removes a prospect, enforcing ownership for non-admins.
func (api *API) DeleteProspect(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	prospect, err := db.GetProspectByID(c.Request.Context(), api.Pool, id)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prospect"})
		return
	}
	if prospect == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		return
	}
	if !p.IsAdmin() && prospect.UserID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access to this prospect is not allowed"})
		return
	}

	deleted, err := db.DeleteProspect(c.Request.Context(), api.Pool, id)
	api.Metrics.ObserveQuery("prospect", "delete", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to delete prospect", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prospect"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		return
	}

	api.Logger.LogEntityMutation("prospect", "delete", id)
	c.Status(http.StatusNoContent)
}

// RecommendedProspects surfaces prospects worth following up on next.
func (api *API) RecommendedProspects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil || limit <= 0 || limit > defaultPageLimit {
		limit = 3
	}

	prospects, err := db.RecommendedProspects(c.Request.Context(), api.Pool, ownerFilter(p), limit)
	api.Metrics.ObserveQuery("prospect", "recommend", err)
	if err != nil {
		api.Logger.WithRequest(c).Error("Failed to load recommended prospects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recommended prospects"})
		return
	}
	c.JSON(http.StatusOK, prospects)
}
