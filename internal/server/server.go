package server

import (
	"log"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/ashrafosamaa/gym-management-sys/internal/handler"
	"github.com/ashrafosamaa/gym-management-sys/internal/middleware"
	"github.com/ashrafosamaa/gym-management-sys/internal/repository"
	"github.com/ashrafosamaa/gym-management-sys/internal/service"
	"github.com/ashrafosamaa/gym-management-sys/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application.
// Media and Notifier are interfaces so tests can swap in fakes.
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	Media       domain.MediaStore
	Notifier    domain.Notifier
}

// NewApp creates and configures the Fiber application with the given dependencies.
func NewApp(deps AppDependencies) *fiber.App {
	// Repositories. The trainer repository is wrapped in a Redis read-through
	// cache because the public directory is the hottest read path.
	adminRepo := repository.NewMongoAdminRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	branchRepo := repository.NewMongoBranchRepository(deps.MongoDB)
	membershipRepo := repository.NewMongoMembershipRepository(deps.MongoDB)
	subscriptionRepo := repository.NewMongoSubscriptionRepository(deps.MongoDB)
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	trainerRepo := repository.NewCachedTrainerRepository(
		repository.NewMongoTrainerRepository(deps.MongoDB),
		cacheRepo,
	)

	// Services
	tokenService := service.NewTokenService(deps.Config.JWT)
	adminService := service.NewAdminService(adminRepo, tokenService, deps.Config.Policy)
	userService := service.NewUserService(userRepo, membershipRepo, subscriptionRepo, tokenService, deps.Media, deps.Notifier, deps.Config.Policy)
	trainerService := service.NewTrainerService(trainerRepo, branchRepo, tokenService, deps.Media, deps.Notifier)
	branchService := service.NewBranchService(branchRepo, trainerRepo, membershipRepo, subscriptionRepo, deps.Config.Policy)
	membershipService := service.NewMembershipService(membershipRepo, userRepo, branchRepo, deps.Config.Policy)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, membershipRepo, trainerRepo, deps.Config.Policy)

	// Handlers
	authHandler := handler.NewAuthHandler(adminService, userService, trainerService, tokenService)
	adminHandler := handler.NewAdminHandler(adminService)
	branchHandler := handler.NewBranchHandler(branchService)
	trainerHandler := handler.NewTrainerHandler(trainerService, deps.Config.Server.MaxUploadSizeMB, deps.Config.Policy.ListEmptyAsNotFound)
	userHandler := handler.NewUserHandler(userService, deps.Config.Server.MaxUploadSizeMB)
	membershipHandler := handler.NewMembershipHandler(membershipService, userRepo)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, userRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Gym Management API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID, X-Request-ID",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Idempotency(deps.RedisClient, idempotencyTTL))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "gym-management-api",
		})
	})

	v1 := app.Group("/v1")
	secret := deps.Config.JWT.Secret

	// ===========================================
	// AUTH - /v1/auth (public)
	// ===========================================
	auth := v1.Group("/auth")
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/user/signup", authHandler.UserSignUp)
	auth.Post("/user/confirm", authHandler.UserConfirm)
	auth.Post("/user/login", authHandler.UserLogin)
	auth.Post("/trainer/first-login", authHandler.TrainerFirstLogin)
	auth.Post("/trainer/login", authHandler.TrainerLogin)
	auth.Post("/refresh", authHandler.Refresh)

	// ===========================================
	// ADMINS - /v1/admins (king only, except own password change)
	// ===========================================
	admins := v1.Group("/admins")
	admins.Use(middleware.VerifyToken(secret))
	admins.Patch("/me/password", middleware.AuthorizeRole(domain.RoleAdmin, domain.RoleKing), adminHandler.ChangePassword)
	admins.Use(middleware.AuthorizeRole(domain.RoleKing))
	admins.Post("/", adminHandler.Create)
	admins.Get("/", adminHandler.List)
	admins.Get("/:id", adminHandler.Get)
	admins.Delete("/:id", adminHandler.Delete)

	// ===========================================
	// BRANCHES - /v1/branches (public reads, admin writes)
	// ===========================================
	v1.Get("/branches", branchHandler.List)
	v1.Get("/branches/:id", branchHandler.Get)

	branches := v1.Group("/branches")
	branches.Use(middleware.VerifyToken(secret))
	branches.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	branches.Post("/", branchHandler.Create)
	branches.Patch("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	// ===========================================
	// TRAINERS - /v1/trainers (public directory, admin lifecycle)
	// ===========================================
	v1.Get("/trainers", trainerHandler.List)
	v1.Get("/trainers/search", trainerHandler.Search)
	v1.Get("/trainers/:id", trainerHandler.Get)

	trainers := v1.Group("/trainers")
	trainers.Use(middleware.VerifyToken(secret))
	trainers.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	trainers.Post("/", trainerHandler.Register)
	trainers.Patch("/:id", trainerHandler.Update)
	trainers.Post("/:id/image", trainerHandler.UploadImage)
	trainers.Delete("/:id", trainerHandler.Delete)

	// ===========================================
	// USERS - /v1/users (member /me group, admin management)
	// ===========================================
	me := v1.Group("/users/me")
	me.Use(middleware.VerifyToken(secret))
	me.Use(middleware.AuthorizeRole(domain.RoleUser))
	me.Get("/", userHandler.Me)
	me.Patch("/", userHandler.UpdateMe)
	me.Patch("/password", userHandler.ChangePassword)
	me.Post("/image", userHandler.UploadImage)
	me.Delete("/", userHandler.DeleteMe)

	users := v1.Group("/users")
	users.Use(middleware.VerifyToken(secret))
	users.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Get("/search", userHandler.Search)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// ===========================================
	// MEMBERSHIPS - /v1/memberships (member /my group, admin group)
	// ===========================================
	myMemberships := v1.Group("/memberships/my")
	myMemberships.Use(middleware.VerifyToken(secret))
	myMemberships.Use(middleware.AuthorizeRole(domain.RoleUser))
	myMemberships.Post("/", membershipHandler.CreateMy)
	myMemberships.Get("/", membershipHandler.ListMy)
	myMemberships.Get("/:id", membershipHandler.GetMy)
	myMemberships.Patch("/:id", membershipHandler.UpdateMy)
	myMemberships.Delete("/:id", membershipHandler.DeleteMy)

	memberships := v1.Group("/memberships")
	memberships.Use(middleware.VerifyToken(secret))
	memberships.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	memberships.Post("/", membershipHandler.Create)
	memberships.Get("/", membershipHandler.List)
	memberships.Get("/user/:id", membershipHandler.ListByUser)
	memberships.Get("/branch/:id", membershipHandler.ListByBranch)
	memberships.Get("/:id", membershipHandler.Get)
	memberships.Patch("/:id", membershipHandler.Update)
	memberships.Delete("/:id", membershipHandler.Delete)

	// ===========================================
	// SUBSCRIPTIONS - /v1/subscriptions (member /my group + rating, admin group)
	// ===========================================
	mySubscriptions := v1.Group("/subscriptions/my")
	mySubscriptions.Use(middleware.VerifyToken(secret))
	mySubscriptions.Use(middleware.AuthorizeRole(domain.RoleUser))
	mySubscriptions.Post("/", subscriptionHandler.CreateMy)
	mySubscriptions.Get("/", subscriptionHandler.ListMy)
	mySubscriptions.Get("/:id", subscriptionHandler.GetMy)
	mySubscriptions.Patch("/:id", subscriptionHandler.UpdateMy)
	mySubscriptions.Delete("/:id", subscriptionHandler.DeleteMy)
	mySubscriptions.Post("/:id/rate", subscriptionHandler.Rate)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.Use(middleware.VerifyToken(secret))
	subscriptions.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	subscriptions.Post("/", subscriptionHandler.Create)
	subscriptions.Get("/", subscriptionHandler.List)
	subscriptions.Get("/trainer/:id", subscriptionHandler.ListByTrainer)
	subscriptions.Get("/user/:id", subscriptionHandler.ListByUser)
	subscriptions.Get("/branch/:id", subscriptionHandler.ListByBranch)
	subscriptions.Get("/:id", subscriptionHandler.Get)
	subscriptions.Patch("/:id", subscriptionHandler.Update)
	subscriptions.Delete("/:id", subscriptionHandler.Delete)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
