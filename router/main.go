package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/authbridge"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/chat"
	"github.com/sahilchouksey/edupath-api/handlers"
	auth_handlers "github.com/sahilchouksey/edupath-api/handlers/auth"
	chat_handlers "github.com/sahilchouksey/edupath-api/handlers/chat"
	college_handlers "github.com/sahilchouksey/edupath-api/handlers/college"
	course_handlers "github.com/sahilchouksey/edupath-api/handlers/course"
	notification_handlers "github.com/sahilchouksey/edupath-api/handlers/notification"
	recommendation_handlers "github.com/sahilchouksey/edupath-api/handlers/recommendation"
	"github.com/sahilchouksey/edupath-api/services"
	"github.com/sahilchouksey/edupath-api/utils/auth"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
)

// Dependencies carries everything the routes need. Optional fields may be nil.
type Dependencies struct {
	Searcher      catalog.Searcher
	Sessions      *chat.Manager
	Bridge        *authbridge.Bridge
	Recommender   recommendation_handlers.Recommender
	Notifications *services.NotificationService
	Verifier      *auth.TokenVerifier
	Revocations   *auth.RevocationList
	BruteForce    *middleware.BruteForceProtection
	HealthChecks  map[string]handlers.Checker
	Security      middleware.SecurityConfig
	Log           *logger.Logger
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.Verifier, deps.Bridge, deps.Revocations, log)

	var revoker auth_handlers.TokenRevoker
	if deps.Revocations != nil {
		revoker = deps.Revocations
	}

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	collegeHandler := college_handlers.NewCollegeHandler(deps.Searcher)
	courseHandler := course_handlers.NewCourseHandler(deps.Searcher)
	authHandler := auth_handlers.NewAuthHandler(deps.Bridge, revoker, deps.BruteForce, log)
	chatHandler := chat_handlers.NewChatHandler(deps.Sessions, log)
	notificationHandler := notification_handlers.NewNotificationHandler(deps.Notifications)
	recommendationHandler := recommendation_handlers.NewRecommendationHandler(deps.Bridge, deps.Recommender)

	// Apply security middleware
	middleware.SetupSecurity(app, deps.Security)

	// Health check endpoints (public)
	app.Get("/ping", healthHandler.Ping)
	app.Get("/health", healthHandler.Health)

	// API v1 group
	api := app.Group("/api/v1")

	// Catalog routes (public)
	colleges := api.Group("/colleges")
	colleges.Get("/", collegeHandler.ListColleges)
	colleges.Get("/:id", collegeHandler.GetCollege)

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Get("/:id/colleges", courseHandler.GetCourseColleges)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if deps.BruteForce != nil {
		authGroup.Post("/login", deps.BruteForce.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Optional(), authHandler.Me)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Chat widget routes (guests allowed)
	chatGroup := api.Group("/chat/sessions", authMiddleware.Optional())
	chatGroup.Post("/", chatHandler.CreateSession)
	chatGroup.Get("/:id", chatHandler.GetSession)
	chatGroup.Post("/:id/messages", chatHandler.SendMessage)
	chatGroup.Get("/:id/stream", chatHandler.StreamReply)
	chatGroup.Post("/:id/reset", chatHandler.ResetSession)
	chatGroup.Delete("/:id", chatHandler.DeleteSession)

	// Notification routes (protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.GetNotifications)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Post("/:id/toggle", notificationHandler.ToggleNotification)

	// Recommendations (protected)
	api.Get("/recommendations", authMiddleware.Required(), recommendationHandler.GetRecommendations)
}
