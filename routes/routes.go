package routes

import (
	"net/http"

	"code-review-api/controllers"
	"code-review-api/middleware"
	"code-review-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the route table needs to build its controllers.
type Deps struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	JWTExpireHours int
	AllowedOrigins []string
	BcryptCost     int
}

// NewRouter builds a gin engine with the standard middleware chain and the
// API routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authService := services.NewAuthService(deps.DB, logger.Named("auth"))
	if deps.BcryptCost > 0 {
		authService.WithBcryptCost(deps.BcryptCost)
	}
	userService := services.NewUserService(deps.DB, logger.Named("users"))
	projectService := services.NewProjectService(deps.DB, logger.Named("projects"))
	submissionService := services.NewSubmissionService(deps.DB, logger.Named("submissions"))
	reviewService := services.NewReviewService(deps.DB, submissionService, logger.Named("reviews"))
	commentService := services.NewCommentService(deps.DB, logger.Named("comments"))

	authController := controllers.NewAuthController(authService, userService, deps.JWTSecret, deps.JWTExpireHours)
	userController := controllers.NewUserController(userService)
	projectController := controllers.NewProjectController(projectService, submissionService)
	submissionController := controllers.NewSubmissionController(submissionService)
	reviewController := controllers.NewReviewController(reviewService)
	commentController := controllers.NewCommentController(commentService)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Code Review API is running",
				})
			})
			public.POST("/auth/register", authController.Register)
			public.POST("/auth/login", authController.Login)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
		{
			protected.GET("/auth/current", authController.Current)

			users := protected.Group("/users")
			{
				users.GET("", userController.List)
				users.GET("/role/:role", userController.ListByRole)
				users.GET("/:id", userController.Get)
				users.PUT("/:id", userController.Update)
				users.DELETE("/:id", userController.Delete)
			}

			projects := protected.Group("/projects")
			{
				projects.POST("", projectController.Create)
				projects.GET("", projectController.List)
				projects.GET("/my-projects", projectController.ListOwned)
				projects.GET("/my-memberships", projectController.ListMemberships)
				projects.GET("/:id", projectController.Get)
				projects.PUT("/:id", projectController.Update)
				projects.DELETE("/:id", projectController.Delete)
				projects.GET("/:id/members", projectController.ListMembers)
				projects.POST("/:id/members", projectController.AddMember)
				projects.DELETE("/:id/members/:userId", projectController.RemoveMember)
				projects.GET("/:id/submissions", projectController.ListSubmissions)
			}

			submissions := protected.Group("/submissions")
			{
				submissions.POST("", submissionController.Create)
				submissions.GET("", submissionController.List)
				submissions.GET("/my-submissions", submissionController.ListMine)
				submissions.GET("/status/:status", submissionController.ListByStatus)
				submissions.GET("/:id", submissionController.Get)
				submissions.PUT("/:id", submissionController.Update)
				submissions.DELETE("/:id", submissionController.Delete)
				submissions.PATCH("/:id/status", submissionController.SetStatus)
				submissions.GET("/:id/history", submissionController.History)

				// Review decisions
				submissions.POST("/:id/approve", reviewController.Approve)
				submissions.POST("/:id/request-changes", reviewController.RequestChanges)
				submissions.GET("/:id/reviews", reviewController.ListBySubmission)

				// Line comments
				submissions.POST("/:id/comments", commentController.Create)
				submissions.GET("/:id/comments", commentController.ListBySubmission)
				submissions.GET("/:id/comments/line/:lineNumber", commentController.ListByLine)
			}

			reviews := protected.Group("/reviews")
			{
				reviews.GET("/my-reviews", reviewController.ListMine)
				reviews.GET("/stats", reviewController.Stats)
				reviews.GET("/:id", reviewController.Get)
				reviews.PATCH("/:id", reviewController.Correct)
			}

			comments := protected.Group("/comments")
			{
				comments.GET("", commentController.List)
				comments.GET("/my-comments", commentController.ListMine)
				comments.GET("/:id", commentController.Get)
				comments.PUT("/:id", commentController.Update)
				comments.DELETE("/:id", commentController.Delete)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})
}
