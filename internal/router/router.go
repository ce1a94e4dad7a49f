// Package router assembles the gin engine: global middleware, the /api route
// table and the operational endpoints.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"notes-be/internal/controllers"
	"notes-be/internal/middleware"
	"notes-be/internal/service"
)

type Deps struct {
	Log         *slog.Logger
	Development bool
	CORSOrigins []string
	// TrustedProxies lists the proxies allowed to set X-Forwarded-For. With
	// none, the client IP used for rate limiting is the socket address.
	TrustedProxies []string
	FrontendURL    string
	Started        time.Time

	AuthService service.AuthService
	NoteService service.NoteService
	UserService service.UserService

	// WindowStore backs the global per-IP limit of RateLimitMax requests per
	// RateLimitWindow.
	WindowStore     middleware.WindowStore
	RateLimitMax    int
	RateLimitWindow time.Duration
	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes int64
	// AuthLimiter is the extra token bucket on register/login. Optional.
	AuthLimiter *middleware.RateLimiter
	// Metrics enables request metrics and GET /metrics. Optional.
	Metrics *middleware.Metrics
}

// New builds the HTTP handler for the API.
func New(d Deps) *gin.Engine {
	responder := controllers.NewResponder(d.Log, d.Development)
	authController := controllers.NewAuthController(d.AuthService, responder)
	noteController := controllers.NewNoteController(d.NoteService, responder)
	userController := controllers.NewUserController(d.UserService, responder)
	qrcodeController := controllers.NewQRCodeController(d.NoteService, d.FrontendURL, responder)
	healthController := controllers.NewHealthController(d.Started)

	var hits middleware.HitRecorder
	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Log.Error("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(middleware.RequestID(), middleware.Recovery(d.Log, d.Development), middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		hits = d.Metrics
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.Use(middleware.CORS(d.CORSOrigins), middleware.SecurityHeaders())
	if d.MaxBodyBytes > 0 {
		router.Use(middleware.BodyLimit(d.MaxBodyBytes))
	}

	authRequired := middleware.AuthMiddleware(d.AuthService, d.Log)
	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.AuthLimiter != nil {
		authLimit = d.AuthLimiter.LimitMiddleware()
	}

	api := router.Group("/api")
	if d.WindowStore != nil {
		api.Use(middleware.NewWindowLimiter(d.WindowStore, d.RateLimitMax, d.RateLimitWindow, hits, d.Log).Middleware())
	}
	{
		api.GET("/health", healthController.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimit, authController.Register)
			auth.POST("/login", authLimit, authController.Login)
			auth.GET("/me", authRequired, authController.Me)
		}

		notes := api.Group("/notes")
		notes.Use(authRequired)
		{
			notes.GET("", noteController.ListNotes)
			notes.POST("", noteController.CreateNote)
			notes.GET("/:id", noteController.GetNote)
			notes.PUT("/:id", noteController.UpdateNote)
			notes.DELETE("/:id", noteController.DeleteNote)
			notes.PATCH("/:id/pin", noteController.TogglePin)
			notes.PATCH("/:id/archive", noteController.ToggleArchive)
			notes.GET("/:id/qrcode", qrcodeController.GenerateQRCode)
		}

		user := api.Group("/user")
		user.Use(authRequired)
		{
			user.GET("/profile", userController.GetProfile)
			user.PUT("/profile", userController.UpdateProfile)
			user.PUT("/change-password", userController.ChangePassword)
			user.DELETE("/account", userController.DeleteAccount)
		}
	}

	router.NoRoute(responder.NotFound)
	return router
}
