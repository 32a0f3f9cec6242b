package router

import (
	"time"

	"fintrack/alerts"
	"fintrack/api"
	"fintrack/config"
	"fintrack/database"
	_ "fintrack/docs"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires the HTTP surface. It also constructs the alert core
// (engine, smart trigger, scheduler) and returns the scheduler so main can
// autostart it from config.
func SetupRouter(cfg *config.Config) (*gin.Engine, *alerts.Scheduler) {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	// Alert core singletons. Everything shares the one engine so the dedup
	// transaction is the only consistency mechanism in play.
	engine := alerts.NewEngine(database.DB, cfg.Alerts)
	trigger := alerts.NewSmartTrigger(engine, time.Duration(cfg.Alerts.TriggerCooldownMinutes)*time.Minute)
	scheduler := alerts.NewScheduler(database.DB, engine, cfg.Alerts.ActivityWindowDays)
	if cfg.Email.Enabled {
		scheduler.SetNotifier(service.NewEmailService(&cfg.Email, database.DB))
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// no session required
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
		}

		transactionHandler := api.NewTransactionHandler()
		v1.GET("/categories", transactionHandler.GetCategories)

		// external scheduler entry point, authenticated by shared secret
		cronHandler := api.NewCronHandler(scheduler, cfg.Alerts.CronSecret)
		v1.GET("/alerts/cron", cronHandler.Run)
		v1.POST("/alerts/cron", cronHandler.Run)

		// JWT required
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/statistics", transactionHandler.GetStatistics)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			authorized.GET("/statistics/summary", transactionHandler.GetSummary)

			budgetHandler := api.NewBudgetHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.POST("", budgetHandler.Create)
				budgets.GET("", budgetHandler.List)
				budgets.GET("/progress", budgetHandler.GetProgress)
				budgets.PUT("/:id", budgetHandler.Update)
				budgets.DELETE("/:id", budgetHandler.Delete)
			}

			recurringHandler := api.NewRecurringHandler()
			recurring := authorized.Group("/recurring")
			{
				recurring.POST("", recurringHandler.Create)
				recurring.GET("", recurringHandler.List)
				recurring.PUT("/:id", recurringHandler.Update)
				recurring.DELETE("/:id", recurringHandler.Delete)
				recurring.POST("/:id/pay", recurringHandler.Pay)
			}

			investmentHandler := api.NewInvestmentHandler()
			investments := authorized.Group("/investments")
			{
				investments.POST("", investmentHandler.Create)
				investments.GET("", investmentHandler.List)
				investments.GET("/portfolio", investmentHandler.GetPortfolio)
				investments.PUT("/:id", investmentHandler.Update)
				investments.DELETE("/:id", investmentHandler.Delete)
			}

			alertHandler := api.NewAlertHandler(engine)
			triggerHandler := api.NewSmartTriggerHandler(trigger)
			alertRoutes := authorized.Group("/alerts")
			{
				alertRoutes.GET("", alertHandler.List)
				alertRoutes.PUT("/:id/read", alertHandler.MarkRead)
				alertRoutes.DELETE("/:id", alertHandler.Delete)
				alertRoutes.POST("/evaluate", alertHandler.Evaluate)
				alertRoutes.GET("/evaluate", alertHandler.EvaluateDryRun)
				alertRoutes.POST("/smart-trigger", triggerHandler.Fire)
				alertRoutes.GET("/smart-trigger", triggerHandler.GetStats)

				schedulerHandler := api.NewSchedulerHandler(scheduler, cfg.Alerts.SchedulerIntervalMinutes)
				adminAlerts := alertRoutes.Group("")
				adminAlerts.Use(middleware.AdminOnly())
				{
					adminAlerts.GET("/scheduler", schedulerHandler.GetStatus)
					adminAlerts.POST("/scheduler", schedulerHandler.Control)
				}
			}

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}

			insightHandler := api.NewInsightHandler(&cfg.AI)
			insights := authorized.Group("/insights")
			{
				insights.POST("", insightHandler.Analyze)
				insights.GET("", insightHandler.List)
			}

			exchangeHandler := api.NewExchangeHandler(service.NewExchangeService(&cfg.Exchange))
			authorized.GET("/exchange/convert", exchangeHandler.Convert)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r, scheduler
}

// CORSMiddleware allows browser clients from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
