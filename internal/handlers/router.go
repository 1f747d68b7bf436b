package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/koyo-works/crm-backend/internal/auth"
	"github.com/koyo-works/crm-backend/internal/config"
	"github.com/koyo-works/crm-backend/internal/events"
	"github.com/koyo-works/crm-backend/pkg/logging"
	"github.com/koyo-works/crm-backend/pkg/metrics"
)

// API bundles the dependencies shared by the request handlers. Every handler
// gets a per-request context from gin and works against the shared pool; no
// state survives the request outside the database itself.
type API struct {
	Pool    *sql.DB
	Tokens  *auth.Manager
	Events  *events.Publisher
	Metrics *metrics.ServiceMetrics
	Logger  *logging.Logger
}

// SetupRouter wires middleware and routes onto a fresh engine.
func SetupRouter(api *API, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.Logger.GinMiddleware())
	if api.Metrics != nil {
		r.Use(api.Metrics.PrometheusMiddleware())
	}

	if len(cfg.FrontendOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.FrontendOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	metrics.SetupMetricsEndpoint(r)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the CRM API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/token", api.Login)

	authed := r.Group("/")
	authed.Use(auth.Middleware(api.Tokens))
	{
		authed.GET("/users/me", api.Me)

		admin := authed.Group("/users")
		admin.Use(auth.RequireAdmin())
		{
			admin.GET("/", api.ListUsers)
			admin.POST("/", api.CreateUser)
		}

		clients := authed.Group("/clients")
		{
			clients.GET("/", api.ListClients)
			clients.POST("/", api.CreateClient)
			clients.GET("/:id", api.GetClient)
			clients.PUT("/:id", api.UpdateClient)
			clients.DELETE("/:id", api.DeleteClient)
		}

		prospects := authed.Group("/prospects")
		{
			prospects.GET("/", api.ListProspects)
			prospects.POST("/", api.CreateProspect)
			prospects.GET("/recommended", api.RecommendedProspects)
			prospects.GET("/:id", api.GetProspect)
			prospects.PUT("/:id", api.UpdateProspect)
			prospects.DELETE("/:id", api.DeleteProspect)
		}

		items := authed.Group("/content-items")
		{
			items.GET("/", api.ListContentItems)
			items.POST("/", api.CreateContentItem)
			items.GET("/:id", api.GetContentItem)
			items.PUT("/:id", api.UpdateContentItem)
			items.DELETE("/:id", api.DeleteContentItem)
		}
	}

	return r
}
