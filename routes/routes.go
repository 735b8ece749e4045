// Package routes builds the HTTP router.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/controllers"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/middleware"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/services"
)

type Deps struct {
	Auth      *services.AuthService
	Bootcamps *services.BootcampService
	Courses   *services.CourseService
	Reviews   *services.ReviewService
	Users     *services.UserService

	AllowedOrigins  []string
	CookieTTL       time.Duration
	SecureCookie    bool
	RateLimiter     *middleware.RateLimiter // nil disables rate limiting
	UploadsDir      string                  // served at /uploads when set
	RequestLogging  bool
	MaxMultipartMem int64
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	if d.MaxMultipartMem > 0 {
		r.MaxMultipartMemory = d.MaxMultipartMem
	}

	r.Use(middleware.RequestID())
	if d.RequestLogging {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeaders())
	r.Use(corsMiddleware(d.AllowedOrigins))
	if d.RateLimiter != nil {
		r.Use(middleware.RateLimit(d.RateLimiter))
	}
	r.NoRoute(middleware.NotFound())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	auth := controllers.NewAuthController(d.Auth, d.CookieTTL, d.SecureCookie)
	bootcamps := controllers.NewBootcampController(d.Bootcamps)
	courses := controllers.NewCourseController(d.Courses)
	reviews := controllers.NewReviewController(d.Reviews)
	users := controllers.NewUserController(d.Users)

	protect := middleware.Protect(d.Auth)
	publisher := middleware.Authorize(models.RolePublisher, models.RoleAdmin)
	reviewer := middleware.Authorize(models.RoleUser, models.RoleAdmin)
	admin := middleware.Authorize(models.RoleAdmin)

	api := r.Group("/api/v1")

	a := api.Group("/auth")
	{
		a.POST("/register", auth.Register())
		a.POST("/login", auth.Login())
		a.GET("/logout", auth.Logout())
		a.GET("/me", protect, auth.Me())
		a.POST("/forgotpassword", auth.ForgotPassword())
		a.PUT("/resetpassword/:resettoken", auth.ResetPassword())
		a.PATCH("/resetpassword/:resettoken", auth.ResetPassword())
		a.PUT("/updatedetails", protect, auth.UpdateDetails())
		a.PATCH("/updatedetails", protect, auth.UpdateDetails())
		a.PUT("/updatepassword", protect, auth.UpdatePassword())
		a.PATCH("/updatepassword", protect, auth.UpdatePassword())
	}

	b := api.Group("/bootcamps")
	{
		b.GET("", bootcamps.GetBootcamps())
		b.POST("", protect, publisher, bootcamps.CreateBootcamp())
		b.GET("/radius/:zipcode/:distance", bootcamps.GetBootcampsInRadius())
		b.GET("/:id", bootcamps.GetBootcamp())
		b.PUT("/:id", protect, publisher, bootcamps.UpdateBootcamp())
		b.PATCH("/:id", protect, publisher, bootcamps.UpdateBootcamp())
		b.DELETE("/:id", protect, publisher, bootcamps.DeleteBootcamp())
		b.PUT("/:id/photo", protect, publisher, bootcamps.UploadPhoto())
		b.PATCH("/:id/photo", protect, publisher, bootcamps.UploadPhoto())

		b.GET("/:id/courses", courses.GetBootcampCourses())
		b.POST("/:id/courses", protect, publisher, courses.AddCourse())
		b.GET("/:id/reviews", reviews.GetBootcampReviews())
		b.POST("/:id/reviews", protect, reviewer, reviews.AddReview())
	}

	c := api.Group("/courses")
	{
		c.GET("", courses.GetCourses())
		c.GET("/:id", courses.GetCourse())
		c.PUT("/:id", protect, publisher, courses.UpdateCourse())
		c.PATCH("/:id", protect, publisher, courses.UpdateCourse())
		c.DELETE("/:id", protect, publisher, courses.DeleteCourse())
	}

	rv := api.Group("/reviews")
	{
		rv.GET("", reviews.GetReviews())
		rv.GET("/:id", reviews.GetReview())
		rv.PUT("/:id", protect, reviewer, reviews.UpdateReview())
		rv.PATCH("/:id", protect, reviewer, reviews.UpdateReview())
		rv.DELETE("/:id", protect, reviewer, reviews.DeleteReview())
	}

	u := api.Group("/users", protect, admin)
	{
		u.GET("", users.GetUsers())
		u.POST("", users.CreateUser())
		u.GET("/:id", users.GetUser())
		u.PUT("/:id", users.UpdateUser())
		u.PATCH("/:id", users.UpdateUser())
		u.DELETE("/:id", users.DeleteUser())
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	log.Logger.Debug("cors origins", zap.Strings("origins", origins))
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
