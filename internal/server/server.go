// Package server contains the HTTP handlers for the forum API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/cache"
	"github.com/SelfhostedPro/foss.space/internal/config"
	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/notifications"
	"github.com/SelfhostedPro/foss.space/internal/repository"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides the HTTP handlers.
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	notifier *notifications.Notifier

	userRepo repository.UserRepository

	userService         *service.UserService
	categoryService     *service.CategoryService
	tagService          *service.TagService
	threadService       *service.ThreadService
	postService         *service.PostService
	interactionService  *service.InteractionService
	subscriptionService *service.SubscriptionService
	notificationService *service.NotificationService
}

// NewServer creates a server instance, establishing the database and Redis
// connections from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Tests use it with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := notifications.NewNotifier(redisClient)
	notificationService := service.NewNotificationService(notificationRepo, subscriptionRepo, notifier)

	return &Server{
		config:              cfg,
		db:                  db,
		redis:               redisClient,
		notifier:            notifier,
		userRepo:            userRepo,
		userService:         service.NewUserService(userRepo),
		categoryService:     service.NewCategoryService(categoryRepo),
		tagService:          service.NewTagService(tagRepo),
		threadService:       service.NewThreadService(db, threadRepo, categoryRepo, tagRepo, userRepo, notificationService),
		postService:         service.NewPostService(db, postRepo, threadRepo, userRepo, notificationService),
		interactionService:  service.NewInteractionService(db, interactionRepo, postRepo, threadRepo, userRepo, notificationService),
		subscriptionService: service.NewSubscriptionService(subscriptionRepo, threadRepo, categoryRepo, tagRepo),
		notificationService: notificationService,
	}
}

// SetupMiddleware configures the app-wide middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit (like the limiter) so
	// browser clients still get CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit per IP; preflight requests are never limited.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "foss.space Metrics Dashboard",
	}))

	// Public browse routes.
	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:slug", s.GetCategoryBySlug)

	tags := api.Group("/tags")
	tags.Get("/", s.ListTags)
	tags.Get("/:slug", s.GetTagBySlug)

	publicThreads := api.Group("/threads")
	publicThreads.Get("/", s.ListThreads)
	publicThreads.Get("/:slug", s.GetThreadBySlug)
	publicThreads.Get("/:id/posts", middleware.OptionalAuth, s.ListThreadPosts)

	api.Get("/users/handle/:handle", s.GetUserByHandle)

	// Protected routes.
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Post("/sync", s.SyncUser)
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/:id/ban", s.ModeratorRequired(), s.BanUser)
	users.Post("/:id/unban", s.ModeratorRequired(), s.UnbanUser)

	protectedCategories := protected.Group("/categories", s.ModeratorRequired())
	protectedCategories.Post("/", s.CreateCategory)
	protectedCategories.Put("/:id", s.UpdateCategory)
	protectedCategories.Post("/:id/deactivate", s.DeactivateCategory)

	protected.Post("/tags", s.CreateTag)

	threads := protected.Group("/threads")
	threads.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_thread"), s.CreateThread)
	threads.Post("/:id/pin", s.ModeratorRequired(), s.PinThread)
	threads.Post("/:id/lock", s.ModeratorRequired(), s.LockThread)
	threads.Post("/:id/tags/:tagId", s.AddThreadTag)
	threads.Delete("/:id/tags/:tagId", s.RemoveThreadTag)
	threads.Post("/:id/bookmark", s.BookmarkThread)
	threads.Delete("/:id/bookmark", s.UnbookmarkThread)
	threads.Delete("/:id", s.DeleteThread)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id/versions", s.ListPostVersions)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/hide", s.ModeratorRequired(), s.HidePost)
	posts.Put("/:id", s.EditPost)
	posts.Delete("/:id", s.DeletePost)

	protected.Get("/bookmarks", s.ListBookmarks)

	flags := protected.Group("/flags")
	flags.Post("/", s.CreateFlag)
	flags.Get("/", s.ModeratorRequired(), s.ListOpenFlags)
	flags.Post("/:id/review", s.ModeratorRequired(), s.ReviewFlag)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.Post("/", s.Subscribe)
	subscriptions.Delete("/", s.Unsubscribe)
	subscriptions.Get("/", s.ListSubscriptions)

	notificationRoutes := protected.Group("/notifications")
	notificationRoutes.Get("/", s.ListNotifications)
	notificationRoutes.Get("/unread-count", s.UnreadCount)
	notificationRoutes.Post("/read-all", s.MarkAllNotificationsRead)
	notificationRoutes.Post("/:id/read", s.MarkNotificationRead)
}

// Shutdown releases server-held resources. The HTTP listener is shut down by
// the caller before this runs.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.ErrorContext(ctx, "closing redis client", "error", err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: the
// forum serves without live notification delivery.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
