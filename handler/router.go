package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zac-t-smith/restoration-intel/config"
	"github.com/zac-t-smith/restoration-intel/middleware"
	"github.com/zac-t-smith/restoration-intel/service"
)

// Services are the dependencies the HTTP layer is built on.
type Services struct {
	Ledger   *service.Ledger
	Payables *service.PayablesService
	Reports  *service.ReportService
}

// NewRouter wires middleware and routes.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(&cfg.CORS))
	router.Use(middleware.NoStore())
	if cfg.RateLimit.Requests > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	authHandler := NewAuthHandler(cfg)
	payablesHandler := NewPayablesHandler(svc.Payables)
	expenseHandler := NewExpenseHandler(svc.Ledger, svc.Payables)
	ledgerHandler := NewLedgerHandler(svc.Ledger)
	reportHandler := NewReportHandler(svc.Reports)

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/payables/recommendations", payablesHandler.Recommendations)
		protected.POST("/payables/simulate", payablesHandler.Simulate)

		reports := protected.Group("/payables/reports", reportHandler.RequireArchive())
		reports.POST("", reportHandler.Export)
		reports.GET("", reportHandler.List)
		reports.GET("/:id", reportHandler.Get)
		reports.DELETE("/:id", reportHandler.Delete)

		protected.GET("/expenses", expenseHandler.List)
		protected.POST("/expenses", expenseHandler.Create)
		protected.POST("/expenses/:id/pay", expenseHandler.Pay)
		protected.GET("/expenses/summary/by-category", expenseHandler.SummaryByCategory)
		protected.GET("/expenses/summary/by-urgency", expenseHandler.SummaryByUrgency)
		protected.GET("/expenses/summary/by-due-date", expenseHandler.SummaryByDueDate)

		protected.POST("/vendors", ledgerHandler.CreateVendor)
		protected.POST("/projects", ledgerHandler.CreateProject)
		protected.POST("/cash-balances", ledgerHandler.RecordCashBalance)
		protected.GET("/cash-balances/latest", ledgerHandler.LatestCashBalance)
	}

	return router
}
