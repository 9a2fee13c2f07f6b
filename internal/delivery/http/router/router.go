// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"menshub/internal/delivery/http/middleware"
	"menshub/internal/delivery/http/router/handler"
	"menshub/internal/domain/entity"
	"menshub/internal/usecase"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ResourceHandler *handler.ResourceHandler
	ContactHandler  *handler.ContactHandler

	GuardMiddleware     *middleware.GuardMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	resourceHandler *handler.ResourceHandler
	contactHandler  *handler.ContactHandler

	guard     *middleware.GuardMiddleware
	rateLimit *middleware.RateLimitMiddleware
	requestID *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		userHandler:     params.UserHandler,
		resourceHandler: params.ResourceHandler,
		contactHandler:  params.ContactHandler,
		guard:           params.GuardMiddleware,
		rateLimit:       params.RateLimitMiddleware,
		requestID:       params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestID.Process)
	// Navigation targets from the route table are enforced globally.
	e.Use(r.guard.Handle)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	memberOnly := r.guard.Protect(usecase.RouteRule{
		Name: "api", RequiresAuth: true,
	})
	adminOnly := r.guard.Protect(usecase.RouteRule{
		Name: "api-admin", RequiresAuth: true,
		Roles: entity.Roles{entity.RoleAdmin},
	})

	// Auth routes. Credential endpoints share the login rate limiter.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register, r.rateLimit.Handle)
		authGroup.POST("/login", r.authHandler.Login, r.rateLimit.Handle)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/me", r.authHandler.Me)
		authGroup.POST("/google", r.authHandler.GoogleLogin)
		authGroup.GET("/google/url", r.authHandler.GoogleRedirectURL)
		authGroup.GET("/google/callback", r.authHandler.GoogleCallback)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword, r.rateLimit.Handle)
	}

	// Member directory. Listings need a session; role changes need admin.
	userGroup := e.Group("/users")
	{
		userGroup.GET("", r.userHandler.ListUsers, memberOnly)
		userGroup.GET("/stats", r.userHandler.Stats, adminOnly)
		userGroup.PATCH("/:uid/role", r.userHandler.UpdateRole, adminOnly)
	}

	// Resource catalogue. Reading is public; writes need a session.
	resourceGroup := e.Group("/resources")
	{
		resourceGroup.GET("", r.resourceHandler.List)
		resourceGroup.GET("/stats", r.resourceHandler.Stats)
		resourceGroup.GET("/:id", r.resourceHandler.Get)
		resourceGroup.POST("", r.resourceHandler.Create, memberOnly)
		resourceGroup.PUT("/:id", r.resourceHandler.Update, memberOnly)
		resourceGroup.DELETE("/:id", r.resourceHandler.Delete, adminOnly)
	}

	// Contact form is public.
	e.POST("/contact", r.contactHandler.Submit)
}
