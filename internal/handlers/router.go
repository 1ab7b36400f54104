package handlers

import (
	"net/http"
	"time"

	"hl-portal/internal/auth"
	"hl-portal/internal/cache"
	"hl-portal/internal/models"
	"hl-portal/internal/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig holds the listener-independent HTTP settings of both servers.
type RouterConfig struct {
	APIKey         string
	CORSOrigins    []string
	LogRequests    bool
	MaxUploadBytes int64
	TrustedProxies []string
}

func newEngine(cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	// ClientIP keys the rate limiters, so X-Forwarded-For is only honoured from known proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(Recovery(logger))
	if cfg.LogRequests {
		r.Use(RequestLogger(logger))
	}
	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
		r.Use(BodyLimit(cfg.MaxUploadBytes))
	}

	// CORS configuration
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", apiKeyHeader},
			ExposeHeaders:    []string{"ETag", requestIDHeader, "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", healthCheck)
	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// NewPublicRouter builds the marketing-site API. Every /api route needs the API key;
// GETs go through the response cache and lead forms through the rate limiter.
// responseCache and limiter may be nil.
func NewPublicRouter(cfg RouterConfig, h *PublicHandler, responseCache *cache.Cache, limiter *ratelimit.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := newEngine(cfg, logger)

	api := r.Group("/api", APIKey(cfg.APIKey))
	{
		cached := api.Group("", cache.Middleware(responseCache))
		cached.GET("/properties", h.ListProperties)
		cached.GET("/sproperties", h.PropertyDetail)
		cached.GET("/similer", h.SimilarProperties)
		cached.GET("/similar", h.SimilarProperties)
		cached.GET("/locations", h.Locations)
		cached.GET("/reviews", h.ListReviews)
		cached.GET("/blogs", h.ListBlogs)
		cached.GET("/blogs/:slug", h.GetBlog)

		// Served with ETag instead of the response cache.
		api.GET("/properties/:id/images/:field", h.PropertyImage)
		api.GET("/search", h.Search)

		leads := api.Group("")
		if limiter != nil {
			leads.Use(ratelimit.Middleware(limiter))
		}
		leads.POST("/visit", h.CreateVisit)
		leads.POST("/contact", h.CreateContact)
		leads.POST("/newsletter", h.Subscribe)
	}
	return r
}

// AdminHandlers groups the dashboard handlers.
type AdminHandlers struct {
	Session    *SessionHandler
	Properties *PropertyHandler
	Agents     *AgentHandler
	Users      *UserHandler
	Leads      *LeadHandler
	Content    *ContentHandler
	Admin      *AdminHandler
}

// NewAdminRouter builds the dashboard API. Everything but login needs a bearer token;
// each area is further gated by role. loginLimiter may be nil.
func NewAdminRouter(cfg RouterConfig, tokens auth.TokenService, h AdminHandlers, loginLimiter *ratelimit.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := newEngine(cfg, logger)

	api := r.Group("/api")
	login := api.Group("")
	if loginLimiter != nil {
		login.Use(ratelimit.Middleware(loginLimiter))
	}
	login.POST("/auth/login", h.Session.Login)

	authed := api.Group("", auth.RequireAuth(tokens))
	authed.GET("/auth/me", h.Session.Me)

	listings := authed.Group("", auth.RequireAccess(models.Role.CanManageListings))
	{
		listings.GET("/properties", h.Properties.List)
		listings.POST("/properties", h.Properties.Create)
		listings.POST("/properties/swap-serial", h.Properties.SwapSerials)
		listings.GET("/properties/:id", h.Properties.Get)
		listings.PUT("/properties/:id", h.Properties.Update)
		listings.DELETE("/properties/:id", h.Properties.Delete)
		listings.GET("/properties/:id/amenities", h.Properties.GetAmenities)
		listings.PUT("/properties/:id/amenities", h.Properties.PutAmenities)
		listings.DELETE("/properties/:id/amenities", h.Properties.DeleteAmenities)

		listings.GET("/agents", h.Agents.List)
		listings.POST("/agents", h.Agents.Create)
		listings.GET("/agents/:id", h.Agents.Get)
		listings.PUT("/agents/:id", h.Agents.Update)
		listings.DELETE("/agents/:id", h.Agents.Delete)

		listings.GET("/reviews", h.Content.ListReviews)
		listings.POST("/reviews", h.Content.CreateReview)
		listings.DELETE("/reviews/:id", h.Content.DeleteReview)

		listings.GET("/blogs", h.Content.ListBlogs)
		listings.POST("/blogs", h.Content.CreateBlog)
		listings.GET("/blogs/:id", h.Content.GetBlog)
		listings.PUT("/blogs/:id", h.Content.UpdateBlog)
		listings.DELETE("/blogs/:id", h.Content.DeleteBlog)
	}

	leads := authed.Group("", auth.RequireAccess(models.Role.CanManageLeads))
	{
		leads.GET("/visits", h.Leads.ListVisits)
		leads.GET("/visits/export", h.Leads.ExportVisits)
		leads.DELETE("/visits/:id", h.Leads.DeleteVisit)
		leads.GET("/contacts", h.Leads.ListContacts)
		leads.DELETE("/contacts/:id", h.Leads.DeleteContact)
		leads.GET("/newsletter", h.Leads.ListSubscribers)
	}

	admin := authed.Group("", auth.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", h.Users.List)
		admin.POST("/users", h.Users.Create)
		admin.GET("/users/:id", h.Users.Get)
		admin.PUT("/users/:id", h.Users.Update)
		admin.DELETE("/users/:id", h.Users.Delete)

		admin.GET("/admin/stats", h.Admin.GetStats)
		admin.POST("/admin/reindex", h.Admin.TriggerReindex)
		admin.POST("/admin/cache/flush", h.Admin.FlushCache)
	}
	return r
}
