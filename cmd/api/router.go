package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	userModel "agency-erp/internal/domains/user/model"
	"agency-erp/internal/shared/middleware"
	"agency-erp/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(allowedOrigins()...),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	api := router.Group("/api")
	{
		setupCronRoutes(api, c)
		setupSlackRoutes(api, c)
	}

	v1 := api.Group("/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)

		// Toàn bộ ERP routes yêu cầu JWT
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			setupClientRoutes(protected, c)
			setupProjectRoutes(protected, c)
			setupInfluencerRoutes(protected, c)
			setupSettlementRoutes(protected, c)
			setupTransactionRoutes(protected, c)
			setupDocumentRoutes(protected, c)
			setupCalendarRoutes(protected, c)
			setupYoutubeRoutes(protected, c)
		}
	}

	return router
}

// allowedOrigins đọc CORS_ALLOWED_ORIGINS (comma-separated), rỗng = cho phép tất cả
func allowedOrigins() []string {
	raw := getEnv("CORS_ALLOWED_ORIGINS", "")
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ========================================
// CRON ROUTES (Vercel-style cron / external scheduler)
// ========================================
func setupCronRoutes(api *gin.RouterGroup, c *container.Container) {
	cron := api.Group("/cron")
	cron.Use(middleware.CronAuth(c.Config.Cron.Secret, c.Config.App.IsProduction()))
	c.CronHandler.RegisterRoutes(cron)
}

// ========================================
// SLACK ROUTES
// ========================================
func setupSlackRoutes(api *gin.RouterGroup, c *container.Container) {
	// Verify bằng signing secret, không dùng JWT
	api.POST("/slack/events", c.EventsHandler.Handle)
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AuthHandler.Login)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		authed.GET("/me", c.AuthHandler.Me)
		authed.PUT("/password", c.AuthHandler.ChangePassword)
	}
}

// ========================================
// CLIENT ROUTES
// ========================================
func setupClientRoutes(rg *gin.RouterGroup, c *container.Container) {
	clients := rg.Group("/clients")
	{
		clients.GET("", c.ClientHandler.List)
		clients.POST("", c.ClientHandler.Create)
		clients.GET("/:id", c.ClientHandler.Get)
		clients.PUT("/:id", c.ClientHandler.Update)
		clients.DELETE("/:id", middleware.RequireRole(userModel.RoleAdmin, userModel.RoleManager), c.ClientHandler.Delete)
	}
}

// ========================================
// PROJECT ROUTES
// ========================================
func setupProjectRoutes(rg *gin.RouterGroup, c *container.Container) {
	projects := rg.Group("/projects")
	{
		projects.GET("", c.ProjectHandler.List)
		projects.POST("", c.ProjectHandler.Create)
		projects.GET("/:id", c.ProjectHandler.Get)
		projects.PUT("/:id", c.ProjectHandler.Update)
		projects.DELETE("/:id", middleware.RequireRole(userModel.RoleAdmin, userModel.RoleManager), c.ProjectHandler.Delete)

		// Collaborators / settlements của project
		projects.GET("/:id/settlements", c.SettlementHandler.ListByProject)
		projects.PUT("/:id/collaborators", c.SettlementHandler.SyncCollaborators)
	}
}

// ========================================
// INFLUENCER ROUTES
// ========================================
func setupInfluencerRoutes(rg *gin.RouterGroup, c *container.Container) {
	influencers := rg.Group("/influencers")
	{
		influencers.GET("", c.InfluencerHandler.List)
		influencers.POST("", c.InfluencerHandler.Create)
		influencers.GET("/:id", c.InfluencerHandler.Get)
		influencers.PUT("/:id", c.InfluencerHandler.Update)
		influencers.DELETE("/:id", middleware.RequireRole(userModel.RoleAdmin, userModel.RoleManager), c.InfluencerHandler.Delete)
	}
}

// ========================================
// SETTLEMENT ROUTES
// ========================================
func setupSettlementRoutes(rg *gin.RouterGroup, c *container.Container) {
	settlements := rg.Group("/settlements")
	{
		settlements.GET("", c.SettlementHandler.List)
		settlements.GET("/summary", c.SettlementHandler.Summary)
		settlements.GET("/export", c.SettlementHandler.Export)
		settlements.GET("/:id", c.SettlementHandler.Get)
		settlements.PATCH("/:id/status", c.SettlementHandler.UpdateStatus)
	}
}

// ========================================
// TRANSACTION ROUTES
// ========================================
func setupTransactionRoutes(rg *gin.RouterGroup, c *container.Container) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", c.TransactionHandler.List)
		transactions.POST("", c.TransactionHandler.Create)
		transactions.GET("/summary", c.TransactionHandler.Summary)
		transactions.GET("/:id", c.TransactionHandler.Get)
		transactions.PUT("/:id", c.TransactionHandler.Update)
		transactions.DELETE("/:id", c.TransactionHandler.Delete)
	}
}

// ========================================
// DOCUMENT ROUTES
// ========================================
func setupDocumentRoutes(rg *gin.RouterGroup, c *container.Container) {
	documents := rg.Group("/documents")
	{
		documents.GET("", c.DocumentHandler.List)
		documents.POST("", c.DocumentHandler.Create)
		documents.GET("/:id", c.DocumentHandler.Get)
		documents.PUT("/:id", c.DocumentHandler.Update)
		documents.DELETE("/:id", c.DocumentHandler.Delete)
		documents.POST("/:id/attachment", c.DocumentHandler.UploadAttachment)
		documents.GET("/:id/attachment", c.DocumentHandler.GetAttachment)
	}
}

// ========================================
// CALENDAR ROUTES
// ========================================
func setupCalendarRoutes(rg *gin.RouterGroup, c *container.Container) {
	calendar := rg.Group("/calendar")
	{
		calendar.GET("/events", c.CalendarHandler.List)
		calendar.POST("/events", c.CalendarHandler.Create)
		calendar.DELETE("/events/:id", c.CalendarHandler.Delete)

		// Rebuild/sync đụng tới toàn bộ marker và Google Calendar
		admin := calendar.Group("")
		admin.Use(middleware.RequireRole(userModel.RoleAdmin, userModel.RoleManager))
		admin.POST("/rebuild", c.CalendarHandler.Rebuild)
		admin.POST("/sync", c.CalendarHandler.Sync)
	}
}

// ========================================
// YOUTUBE ROUTES
// ========================================
func setupYoutubeRoutes(rg *gin.RouterGroup, c *container.Container) {
	yt := rg.Group("/youtube")
	{
		yt.GET("/search", c.YoutubeHandler.Search)
		yt.GET("/export", c.YoutubeHandler.Export)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		// Check object storage
		storageStatus := "disabled"
		if appCtx.Storage != nil {
			storageStatus = "ok"
			if err := appCtx.Storage.Ping(ctx); err != nil {
				storageStatus = fmt.Sprintf("error: %v", err)
			}
		}

		calendarStatus := "disabled"
		if appCtx.Calendar != nil {
			calendarStatus = "configured"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  storageStatus,
			"calendar": calendarStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
