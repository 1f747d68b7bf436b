package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koyo-works/crm-backend/internal/auth"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// pagination reads the skip/limit query parameters with the usual defaults.
func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return skip, limit
}

// pathID parses the :id path parameter. A zero return means the response has
// already been written.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// principal returns the authenticated caller, aborting with 401 when the
// middleware did not run.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
	}
	return p, ok
}

// ownerFilter returns the owner id to scope list queries with: nil for
// admins (see everything), the caller's id otherwise.
func ownerFilter(p auth.Principal) *int64 {
	if p.IsAdmin() {
		return nil
	}
	id := p.UserID
	return &id
}
