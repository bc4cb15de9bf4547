package routes

import (
	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router serves
type Handlers struct {
	User     *handler.UserHandler
	Task     *handler.TaskHandler
	Payout   *handler.PayoutHandler
	Setting  *handler.SettingHandler
	Contact  *handler.ContactHandler
	Admin    *handler.AdminHandler
	Health   *handler.HealthHandler
	Sessions usecase.SessionUseCase
	Limiter  *middleware.IPRateLimiter
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)

	api := router.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Limiter.Middleware(), h.User.Signup)
		auth.POST("/login", h.Limiter.Middleware(), h.User.Login)
		auth.POST("/verify-email", h.Limiter.Middleware(), h.User.VerifyEmail)
		auth.POST("/logout", middleware.RequireAuth(h.Sessions, entity.RoleUser), h.User.Logout)
	}
	api.GET("/settings", h.Setting.GetPublic)
	api.POST("/contact", h.Limiter.Middleware(), middleware.OptionalAuth(h.Sessions), h.Contact.Submit)

	// Signed-in user routes
	user := api.Group("", middleware.RequireAuth(h.Sessions, entity.RoleUser))
	{
		user.GET("/me", h.User.GetProfile)
		user.GET("/me/transactions", h.User.ListTransactions)
		user.GET("/me/referrals", h.User.ListReferrals)

		user.GET("/tasks", h.Task.ListAvailable)
		user.POST("/tasks/:id/complete", h.Task.Complete)

		user.POST("/payouts", h.Payout.Request)
		user.GET("/payouts", h.Payout.ListOwn)
	}

	// Staff routes
	api.POST("/admin/auth/login", h.Limiter.Middleware(), h.Admin.Login)
	staff := api.Group("/admin", middleware.RequireAuth(h.Sessions, entity.RoleAdmin, entity.RoleSupport))
	{
		staff.POST("/auth/logout", h.User.Logout)

		// Support staff handle contact messages and email
		staff.GET("/contacts", h.Contact.List)
		staff.GET("/contacts/:id", h.Contact.Get)
		staff.PATCH("/contacts/:id", h.Contact.Update)
		staff.POST("/emails", h.Admin.SendEmail)
	}

	admin := staff.Group("", middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/dashboard", h.Admin.Dashboard)

		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/users/:id", h.Admin.GetUser)
		admin.PATCH("/users/:id", h.Admin.UpdateUser)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)

		admin.GET("/tasks", h.Task.List)
		admin.POST("/tasks", h.Task.Create)
		admin.GET("/tasks/:id", h.Task.Get)
		admin.PUT("/tasks/:id", h.Task.Update)
		admin.DELETE("/tasks/:id", h.Task.Delete)

		admin.GET("/payouts", h.Payout.List)
		admin.GET("/payouts/:id", h.Payout.Get)
		admin.PATCH("/payouts/:id", h.Payout.Transition)

		admin.GET("/settings", h.Setting.List)
		admin.PUT("/settings/:key", h.Setting.Update)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string) {
	// Apply middlewares in the correct order
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(allowedOrigins))
}
