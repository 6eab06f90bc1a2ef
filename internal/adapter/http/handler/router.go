package handler

import (
	"cnc-fabbook/config"
	"cnc-fabbook/internal/adapter/http/middleware"
	"cnc-fabbook/internal/adapter/storage/local"
	redisStore "cnc-fabbook/internal/adapter/storage/redis"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps carries everything SetupRouter wires into the route tree.
type RouterDeps struct {
	Config         *config.Config
	Log            zerolog.Logger
	Auth           *AuthHandler
	Balance        *BalanceHandler
	FundRequest    *FundRequestHandler
	Payment        *PaymentHandler
	Transaction    *TransactionHandler
	Profile        *ProfileHandler
	Feed           *FeedHandler
	DXF            *DXFHandler
	TokenSvc       ports.TokenService
	Files          *local.FileStore
	RateLimits     *redisStore.RateLimitStore // nil disables rate limiting
	HealthCheckers []ports.HealthChecker
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(deps.Config.Server.Mode)

	router := gin.New()
	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.MaxBodySize(deps.Config.Server.MaxBodySize))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimits == nil || !deps.Config.RateLimit.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimits, group, rules[group], deps.Log)
	}

	router.GET("/health", HealthCheck(deps.HealthCheckers...))
	router.Static("/uploads", deps.Files.Dir())

	// Feed
	router.POST("/upload", rl("uploads"), deps.Feed.UploadStory)
	router.GET("/stories", deps.Feed.ListStories)
	router.DELETE("/stories", rl("admin"), deps.Feed.ClearStories)
	router.POST("/post", rl("uploads"), deps.Feed.UploadPost)
	router.GET("/posts", deps.Feed.ListPosts)
	router.DELETE("/posts", rl("admin"), deps.Feed.ClearPosts)
	router.POST("/react", deps.Feed.React)
	router.POST("/like", deps.Feed.Like)
	router.POST("/comment", deps.Feed.BumpCommentCount)
	router.POST("/share", deps.Feed.Share)
	router.POST("/comments", deps.Feed.AddComment)
	router.GET("/comments/:postId", deps.Feed.ListComments)
	router.DELETE("/comments", rl("admin"), deps.Feed.ClearComments)

	// DXF listings and previews
	router.POST("/upload-dxf", rl("uploads"), middleware.MaxBodySize(10<<20), deps.DXF.Upload)
	router.GET("/dxf/:filename", deps.DXF.Info)
	router.GET("/dxf-to-svg", deps.DXF.ToSVG)

	// Profiles
	router.POST("/upload-profile", rl("uploads"), deps.Profile.UploadImage)
	router.GET("/profiles", deps.Profile.ListProfiles)
	router.POST("/upload-about", deps.Profile.SaveAbout)
	router.GET("/about-data", deps.Profile.GetAllAbout)
	router.GET("/about-data/:userName", deps.Profile.GetAbout)
	router.POST("/upload-bio", deps.Profile.SaveBio)
	router.GET("/bio-data", deps.Profile.GetAllBios)
	router.GET("/bio-data/:userName", deps.Profile.GetBio)

	// Balances and fund requests
	router.GET("/user/balance/:userName", deps.Balance.GetBalance)
	router.POST("/user/balance/:userName/subtract", deps.Balance.SubtractBalance)
	router.POST("/submit-deposit", rl("payments"), deps.FundRequest.SubmitDeposit)
	router.POST("/submit-withdraw", rl("payments"), deps.FundRequest.SubmitWithdraw)

	admin := router.Group("/admin", rl("admin"))
	{
		admin.POST("/update-balance", deps.Balance.UpdateBalance)
		admin.GET("/requests", deps.FundRequest.ListDeposits)
		admin.GET("/withdraw-requests", deps.FundRequest.ListWithdraws)
		admin.POST("/approve/:requestId", deps.FundRequest.ApproveDeposit)
		admin.POST("/reject/:requestId", deps.FundRequest.RejectDeposit)
		admin.PUT("/request/:requestId/status", deps.FundRequest.UpdateDepositStatus)
		admin.POST("/approve-withdraw", deps.FundRequest.DecideWithdraw(domain.FundRequestStatusApproved))
		admin.POST("/reject-withdraw", deps.FundRequest.DecideWithdraw(domain.FundRequestStatusRejected))
	}

	// Settlement and downloads
	router.POST("/file-payment", rl("payments"), deps.Payment.FilePayment)
	router.GET("/download/:filename", rl("payments"), deps.Payment.Download)

	// Transaction log
	router.POST("/upload-transaction", deps.Transaction.Upload)
	router.GET("/transactions", deps.Transaction.List)
	router.GET("/transactions/:userName", deps.Transaction.ListByUser)
	router.PUT("/transactions/:transactionId/status", deps.Transaction.UpdateStatus)

	api := router.Group("/api")
	{
		api.POST("/save-user-name", rl("auth_register"), deps.Auth.SaveName)
		api.POST("/save-user-dob", rl("auth_register"), deps.Auth.SaveDOB)
		api.POST("/check-phone", rl("auth_register"), deps.Auth.CheckPhone)
		api.POST("/save-user-account", rl("auth_register"), deps.Auth.SaveAccount)
		api.POST("/complete-user-registration", rl("auth_register"), deps.Auth.CompleteRegistration)
		api.POST("/login", rl("auth_login"), deps.Auth.Login)
		api.GET("/registrations", rl("admin"), deps.Auth.ListRegistrations)
		api.GET("/stats", rl("admin"), deps.Auth.Stats)
		api.GET("/user-profile/:phoneNumber", deps.Auth.UserProfile)
		api.GET("/current-user", middleware.JWTAuth(deps.TokenSvc, deps.Log), deps.Auth.CurrentUser)
		api.GET("/public-profiles", deps.Auth.PublicProfiles)
		api.POST("/request-password-reset", rl("password_reset"), deps.Auth.RequestPasswordReset)
		api.POST("/verify-reset-code", rl("password_reset"), deps.Auth.VerifyResetCode)
		api.POST("/reset-password", rl("password_reset"), deps.Auth.ResetPassword)
	}

	return router
}
