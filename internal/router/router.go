package router

import (
	"log"
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pixshare/backend/internal/handlers"
	"github.com/pixshare/backend/internal/middleware"
	"github.com/pixshare/backend/internal/repositories"
	"github.com/pixshare/backend/internal/services"
	"github.com/pixshare/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware and the error envelope
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler
	log.Println("Global middleware configured.")
}

// errorHandler renders every error as {success:false, message}. Internal
// details never leak; non-HTTP errors become a generic 500.
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Response().Committed {
		return
	}
	if jsonErr := c.JSON(code, echo.Map{"success": false, "message": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, firebaseAuthClient *fbauth.Client, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	profileRepo := repositories.NewMongoProfileRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo)
	graphService := services.NewGraphService(userRepo, notificationService)
	feedService := services.NewFeedService(postRepo, userRepo)
	contentService := services.NewContentService(postRepo, notificationService)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if cfg.AuthProvider == "firebase" && firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}

	userHandler := handlers.NewUserHandler(userRepo, profileRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	followHandler := handlers.NewFollowHandler(graphService)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, userRepo, feedService, contentService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	likeHandler := handlers.NewLikeHandler(contentService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	savedPostHandler := handlers.NewSavedPostHandler(contentService)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	commentHandler := handlers.NewCommentHandler(contentService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
