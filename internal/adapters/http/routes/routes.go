package routes

import (
	"msacco-api/internal/adapters/http/handlers"
	"msacco-api/internal/adapters/http/middleware"
	"msacco-api/internal/adapters/persistence/repositories"
	"msacco-api/internal/config"
	"msacco-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	loanTypeRepo := repositories.NewLoanTypeRepository(db)
	loanConfigRepo := repositories.NewLoanConfigRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	accountService := services.NewAccountService(accountRepo, userRepo)
	loanTypeService := services.NewLoanTypeService(loanTypeRepo, loanConfigRepo)
	eligibilityService := services.NewEligibilityService(accountRepo, loanRepo, loanConfigRepo, cfg.Loan.Multiplier)
	loanService := services.NewLoanService(loanRepo, accountRepo, loanTypeRepo, eligibilityService, uow, cfg)
	transactionService := services.NewTransactionService(transactionRepo, accountRepo, uow)
	dashboardService := services.NewDashboardService(db, eligibilityService)
	cronService := services.NewCronService(refreshTokenRepo, dashboardService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	loanTypeHandler := handlers.NewLoanTypeHandler(loanTypeService)
	loanHandler := handlers.NewLoanHandler(loanService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)

	// Profile routes (authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Put("/", userHandler.UpdateProfile)
	profileRoutes.Put("/password", userHandler.ChangePassword)

	// User management routes (admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	userRoutes.Get("/", userHandler.List)
	userRoutes.Get("/:id", userHandler.GetByID)
	userRoutes.Put("/:id", userHandler.Update)
	userRoutes.Delete("/:id", userHandler.Delete)

	// Account routes
	accountRoutes := apiV1.Group("/accounts")
	accountRoutes.Use(middleware.AuthMiddleware(cfg))
	accountRoutes.Get("/my", accountHandler.GetMine)
	accountRoutes.Get("/", middleware.AdminOnly(), accountHandler.List)
	accountRoutes.Post("/", middleware.AdminOnly(), accountHandler.Create)
	accountRoutes.Get("/:id", accountHandler.GetByID)
	accountRoutes.Put("/:id", middleware.AdminOnly(), accountHandler.Update)
	accountRoutes.Get("/:id/transactions", transactionHandler.ListByAccount)

	// Loan type routes (reads for all members, mutations admin only)
	loanTypeRoutes := apiV1.Group("/loan-types")
	loanTypeRoutes.Use(middleware.AuthMiddleware(cfg))
	loanTypeRoutes.Get("/", loanTypeHandler.List)
	loanTypeRoutes.Get("/:id", loanTypeHandler.GetByID)
	loanTypeRoutes.Post("/", middleware.AdminOnly(), loanTypeHandler.Create)
	loanTypeRoutes.Put("/:id", middleware.AdminOnly(), loanTypeHandler.Update)
	loanTypeRoutes.Delete("/:id", middleware.AdminOnly(), loanTypeHandler.Delete)

	// Lending policy routes (admin only)
	loanConfigRoutes := apiV1.Group("/loan-config")
	loanConfigRoutes.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	loanConfigRoutes.Get("/", loanTypeHandler.GetConfig)
	loanConfigRoutes.Put("/", loanTypeHandler.UpdateConfig)

	// Loan routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Get("/eligibility", loanHandler.Eligibility)
	loanRoutes.Get("/", loanHandler.List)
	loanRoutes.Post("/", loanHandler.Request)
	loanRoutes.Get("/:id", loanHandler.GetByID)
	loanRoutes.Put("/:id", middleware.AdminOnly(), loanHandler.AdminUpdate)
	loanRoutes.Patch("/:id/approve", middleware.AdminOnly(), loanHandler.Approve)
	loanRoutes.Patch("/:id/reject", middleware.AdminOnly(), loanHandler.Reject)
	loanRoutes.Patch("/:id/settle", middleware.AdminOnly(), loanHandler.Settle)

	// Transaction routes (posting admin only)
	transactionRoutes := apiV1.Group("/transactions")
	transactionRoutes.Use(middleware.AuthMiddleware(cfg))
	transactionRoutes.Get("/", transactionHandler.List)
	transactionRoutes.Post("/", middleware.AdminOnly(), transactionHandler.Post)
	transactionRoutes.Get("/:id", transactionHandler.GetByID)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.Get)

	return cronService
}
