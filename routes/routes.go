package routes

import (
	"time"

	"gymhub/handlers"
	"gymhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "GymHub API is running",
			"time":    time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 10)

	// Public routes (no auth required)
	public := router.Group("/api")
	public.POST("/signup", authLimiter.Middleware(), handlers.Signup)
	public.POST("/login", authLimiter.Middleware(), handlers.Login)
	public.POST("/admin/login", authLimiter.Middleware(), handlers.AdminLogin)
	public.GET("/vapid-public-key", handlers.GetVapidPublicKey)
	public.GET("/trainers", handlers.ListTrainers)
	public.GET("/classes", handlers.ListClasses)
	public.GET("/gallery", handlers.ListGallery)
	public.GET("/testimonials", handlers.ListApprovedTestimonials)
	public.POST("/contact", handlers.CreateContactMessage)

	// Member routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)

	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/feed", handlers.GetFeed)
	protected.DELETE("/posts/:id", handlers.DeletePost)
	protected.POST("/posts/:id/like", handlers.LikePost)
	protected.DELETE("/posts/:id/like", handlers.UnlikePost)
	protected.POST("/posts/:id/comments", handlers.CommentPost)
	protected.GET("/posts/:id/comments", handlers.GetComments)

	protected.GET("/notifications", handlers.GetMyNotifications)
	protected.POST("/notifications/read", handlers.MarkNotificationsRead)

	protected.POST("/subscribe", handlers.SubscribePush)
	protected.DELETE("/subscribe", handlers.UnsubscribePush)

	protected.POST("/testimonials", handlers.CreateTestimonial)

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())

	admin.GET("/members", handlers.ListMembers)
	admin.POST("/members/:id/verify", handlers.VerifyMember)
	admin.POST("/members/:id/suspend", handlers.SuspendMember)
	admin.POST("/members/:id/unsuspend", handlers.UnsuspendMember)
	admin.DELETE("/members/:id", handlers.DeleteMember)

	admin.POST("/trainers", handlers.CreateTrainer)
	admin.PUT("/trainers/:id", handlers.UpdateTrainer)
	admin.DELETE("/trainers/:id", handlers.DeleteTrainer)

	admin.POST("/classes", handlers.CreateClass)
	admin.PUT("/classes/:id", handlers.UpdateClass)
	admin.DELETE("/classes/:id", handlers.DeleteClass)

	admin.POST("/gallery", handlers.UploadGalleryItem)
	admin.DELETE("/gallery/:id", handlers.DeleteGalleryItem)

	admin.GET("/testimonials", handlers.ListAllTestimonials)
	admin.POST("/testimonials/:id/approve", handlers.ApproveTestimonial)
	admin.DELETE("/testimonials/:id", handlers.DeleteTestimonial)

	admin.GET("/contacts", handlers.ListContactMessages)
	admin.POST("/contacts/:id/read", handlers.MarkContactMessageRead)
	admin.DELETE("/contacts/:id", handlers.DeleteContactMessage)

	admin.GET("/motivation-messages", handlers.ListMotivationMessages)
	admin.POST("/motivation-messages", handlers.CreateMotivationMessage)
	admin.PUT("/motivation-messages/:id", handlers.UpdateMotivationMessage)
	admin.DELETE("/motivation-messages/:id", handlers.DeleteMotivationMessage)

	admin.POST("/broadcast", handlers.AdminBroadcast)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
