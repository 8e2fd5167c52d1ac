// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"tavara/internal/config"
	"tavara/internal/handlers"
	"tavara/internal/middleware"
	"tavara/internal/models"
	"tavara/internal/repositories"
	"tavara/internal/services/agency"
	"tavara/internal/services/auth"
	"tavara/internal/services/dashboard"
	"tavara/internal/services/user"
	"tavara/internal/services/verification"
	"tavara/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the pieces main wires up outside the database, currently just
// document storage. A nil DocumentStore disables uploads.
type Deps struct {
	Documents storage.DocumentStore
}

// VerificationService builds the verification service the way SetupRoutes
// does, for callers (the cron sweeper, seeds) that need it outside HTTP.
func VerificationService(db *gorm.DB) *verification.Service {
	return verification.NewService(
		repositories.NewVerificationRequestRepository(db),
		repositories.NewAgencyRepository(db),
		statusCache(),
		verificationPolicy(),
		nil,
	)
}

// statusCache converts the typed cache global to the service interface. The
// explicit nil check matters: assigning a nil *cache.CacheService directly
// would produce a non-nil interface and dodge the noop fallback.
func statusCache() verification.StatusCache {
	if repositories.CacheService == nil {
		return verification.NoopStatusCache{}
	}
	return repositories.CacheService
}

func verificationPolicy() verification.Policy {
	return verification.Policy{
		RevokeOnRejectedRenewal: config.GetBoolEnv("VERIFICATION_REVOKE_ON_REJECTED_RENEWAL", false),
	}
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	agencyRepo := repositories.NewAgencyRepository(db)
	requestRepo := repositories.NewVerificationRequestRepository(db)

	// Initialize services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	agencyService := agency.NewService(agencyRepo)
	verificationService := verification.NewService(
		requestRepo,
		agencyRepo,
		statusCache(),
		verificationPolicy(),
		nil,
	)
	dashboardService := dashboard.NewService(requestRepo, db, nil)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	agencyHandler := handlers.NewAgencyHandler(agencyService, verificationService)
	verificationHandler := handlers.NewVerificationHandler(verificationService, agencyService, deps.Documents)
	adminHandler := handlers.NewAdminHandler(verificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", userHandler.Register)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/health", handlers.HealthCheck)

	// Public directory for travelers
	api.Get("/agencies", agencyHandler.Directory)
	api.Get("/agencies/:id/status", agencyHandler.PublicStatus)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Tavara API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Group("", authMiddleware.Handler)

	// Account routes
	protected.Get("/me", userHandler.GetProfile)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Post("/logout", authHandler.LogoutUser)

	setupAgencyRoutes(protected, agencyHandler, verificationHandler)
	setupAdminRoutes(protected, adminHandler, dashboardHandler, userHandler)
}

func setupAgencyRoutes(router fiber.Router, agencyHandler *handlers.AgencyHandler, verificationHandler *handlers.VerificationHandler) {
	ag := router.Group("/agency", middleware.HasPermission(models.PermissionAgencyWrite))

	// Profile management
	ag.Post("/", agencyHandler.CreateProfile)
	ag.Get("/profile", agencyHandler.GetOwnProfile)
	ag.Put("/profile", agencyHandler.UpdateProfile)

	// Verification lifecycle
	ver := ag.Group("/verification", middleware.HasPermission(models.PermissionVerificationSubmit), middleware.RequireAgency)
	ver.Post("/", verificationHandler.Submit)
	ver.Post("/renewal", verificationHandler.SubmitRenewal)
	ver.Get("/status", verificationHandler.MyStatus)
	ver.Get("/history", verificationHandler.MyHistory)
	ver.Post("/documents", verificationHandler.UploadDocument)
}

func setupAdminRoutes(router fiber.Router, adminHandler *handlers.AdminHandler, dashboardHandler *handlers.DashboardHandler, userHandler *handlers.UserHandler) {
	admin := router.Group("/admin", middleware.AdminAuthMiddleware)

	admin.Get("/dashboard", dashboardHandler.ReviewDashboard)
	admin.Get("/users/:id", userHandler.GetUser)

	// Review queue
	requests := admin.Group("/verification-requests", middleware.HasPermission(models.PermissionVerificationReview))
	requests.Get("/", adminHandler.PendingQueue)
	requests.Get("/:id", adminHandler.GetRequest)
	requests.Post("/:id/approve", adminHandler.Approve)
	requests.Post("/:id/reject", adminHandler.Reject)

	// Trust record maintenance
	agencies := admin.Group("/agencies")
	agencies.Get("/:id/status", adminHandler.AgencyStatus)
	agencies.Get("/:id/history", adminHandler.AgencyHistory)
	agencies.Get("/:id/consistency", adminHandler.CheckConsistency)
	agencies.Post("/:id/reconcile", adminHandler.Reconcile)
	agencies.Post("/:id/reclassify", adminHandler.Reclassify)
	agencies.Post("/reclassify-all", adminHandler.ReclassifyAll)
}
