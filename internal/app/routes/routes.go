package routes

import (
	"net/http"

	"github.com/TiebenDepaepe/Stepoutx/internal/app/controllers"
	"github.com/TiebenDepaepe/Stepoutx/internal/app/models/dto"
	"github.com/TiebenDepaepe/Stepoutx/internal/middleware"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts. MediaController is nil when
// media lives in a bucket that signs its own URLs.
type Handlers struct {
	SubmissionController *controllers.SubmissionController
	AdminController      *controllers.AdminController
	AuthController       *controllers.AuthController
	MediaController      *controllers.MediaController
	EventHandler         *websocket.Handler
	AuthMiddleware       *middleware.AuthMiddleware
	SignupLimiter        gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if h.MediaController != nil {
		router.GET("/media/*key", h.MediaController.Serve)
	}

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public signup routes ---
	v1.GET("/signup/options", h.SubmissionController.Options)
	signups := v1.Group("/signups")
	if h.SignupLimiter != nil {
		signups.Use(h.SignupLimiter)
	}
	signups.POST("", h.SubmissionController.Signup)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.AuthController.Login)
		auth.GET("/session", h.AuthMiddleware.JWTAuth(), h.AuthController.Session)
	}

	// --- Admin dashboard ---
	admin := v1.Group("/admin")
	{
		submissions := admin.Group("/submissions")
		submissions.Use(h.AuthMiddleware.JWTAuth())
		{
			submissions.GET("", h.AdminController.ListSubmissions)
			submissions.GET("/:id", h.AdminController.GetSubmission)
			submissions.PATCH("/:id/status", h.AdminController.UpdateStatus)
			submissions.PATCH("/:id/notes", h.AdminController.UpdateNotes)
		}
		admin.GET("/events", h.AuthMiddleware.JWTAuthQuery(), h.EventHandler.HandleConnection)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
