package router

import (
	"net/http"

	"github.com/donorhub/dhs/internal/apperror"
	"github.com/donorhub/dhs/internal/auth"
	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/event"
	"github.com/donorhub/dhs/internal/handler"
	"github.com/donorhub/dhs/internal/logger"
	"github.com/donorhub/dhs/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 注册中间件与路由，publisher 接收捐赠提交后的事件
func Setup(db *gorm.DB, publisher event.Publisher, cfg *config.Config) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()

	// 中间件
	r.Use(middleware.RequestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		handler.AbortWithError(c, apperror.Internal())
	}))
	r.Use(middleware.CORS())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "donorhub",
		})
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	requireAuth := auth.Middleware(tokens, handler.AbortWithError)

	api := r.Group("/api")
	{
		authHandler := handler.NewAuthHandler(db, tokens)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		protected := api.Group("", requireAuth)

		donorHandler := handler.NewDonorHandler(db)
		donors := protected.Group("/donors")
		{
			donors.GET("", donorHandler.GetDonors)
			donors.POST("", donorHandler.CreateDonor)
			donors.GET("/:id", donorHandler.GetDonor)
			donors.PATCH("/:id", donorHandler.UpdateDonor)
			donors.DELETE("/:id", donorHandler.DeleteDonor)
		}

		donationHandler := handler.NewDonationHandler(db, publisher)
		donations := protected.Group("/donations")
		{
			donations.GET("", donationHandler.GetDonations)
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("/:id", donationHandler.GetDonation)
			donations.PATCH("/:id", donationHandler.UpdateDonation)
			donations.DELETE("/:id", donationHandler.DeleteDonation)
			donations.POST("/:id/thank", donationHandler.ThankDonation)
		}

		campaignHandler := handler.NewCampaignHandler(db)
		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PATCH("/:id", campaignHandler.UpdateCampaign)
		}

		taskHandler := handler.NewTaskHandler(db)
		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		dashboardHandler := handler.NewDashboardHandler(db)
		protected.GET("/dashboard/summary", dashboardHandler.GetSummary)
	}

	return r
}
