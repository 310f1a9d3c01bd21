// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"classtrack/internal/delivery/http/middleware"
	"classtrack/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	ActivityHandler   *handler.ActivityHandler
	AttachmentHandler *handler.AttachmentHandler
	DeviceHandler     *handler.DeviceHandler
	AdminHandler      *handler.AdminHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	activityHandler   *handler.ActivityHandler
	attachmentHandler *handler.AttachmentHandler
	deviceHandler     *handler.DeviceHandler
	adminHandler      *handler.AdminHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		activityHandler:   params.ActivityHandler,
		attachmentHandler: params.AttachmentHandler,
		deviceHandler:     params.DeviceHandler,
		adminHandler:      params.AdminHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.RefreshToken)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Profile routes that require authentication
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("/me", r.authHandler.GetProfile)
	}

	// Activity routes that require authentication
	activityGroup := e.Group("/activities")
	activityGroup.Use(r.authMiddleware.Authenticate)
	{
		activityGroup.POST("", r.activityHandler.CreateActivity)
		activityGroup.GET("", r.activityHandler.ListMyActivities)
		activityGroup.GET("/:id", r.activityHandler.GetActivity)
		activityGroup.PATCH("/:id", r.activityHandler.UpdateActivity)
		activityGroup.DELETE("/:id", r.activityHandler.DeleteActivity)
		activityGroup.POST("/:id/comments", r.activityHandler.AddComment)
		activityGroup.GET("/:id/comments", r.activityHandler.ListComments)
		activityGroup.POST("/:id/attachments", r.attachmentHandler.UploadAttachment)
		activityGroup.GET("/attachments/:attachmentId", r.attachmentHandler.DownloadAttachment)
	}

	// Device registration for push notifications
	deviceGroup := e.Group("/devices")
	deviceGroup.Use(r.authMiddleware.Authenticate)
	{
		deviceGroup.POST("", r.deviceHandler.RegisterDevice)
	}

	// Admin routes. Authentication resolves the caller here; the admin gate
	// in the usecase layer decides whether that caller may proceed.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	{
		adminGroup.GET("/duplicates", r.adminHandler.FindDuplicateGroups)
		adminGroup.POST("/duplicates/plan", r.adminHandler.PlanMerges)
		adminGroup.POST("/merges", r.adminHandler.ApplyMerge)
		adminGroup.POST("/duplicates/merge", r.adminHandler.AutoMerge)
	}
}
