package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"invoicegen-backend/config"
	"invoicegen-backend/controllers"
	"invoicegen-backend/logger"
	"invoicegen-backend/services"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Store       store.Store
	Tokens      *utils.TokenManager
	Auth        *services.AuthService
	Invoices    *services.InvoiceService
	Messages    *services.MessageService
	AI          *services.AIService
	CORSOrigins []string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))
	r.Use(config.PerformanceLogger())

	r.GET("/health", healthCheck(deps.Store))

	authController := controllers.NewAuthController(deps.Auth)
	invoiceController := controllers.NewInvoiceController(deps.Invoices)
	messageController := controllers.NewMessageController(deps.Messages)
	aiController := controllers.NewAIController(deps.AI)

	requireAuth := utils.AuthMiddleware(deps.Tokens, deps.Auth.UserExists)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(requireAuth)
		auth.GET("/me", authController.Me)
		auth.PUT("/update-profile", authController.UpdateProfile)
	}

	invoices := api.Group("/invoices", requireAuth)
	{
		invoices.POST("", invoiceController.CreateInvoice)
		invoices.GET("", invoiceController.GetInvoices)
		invoices.GET("/:id", invoiceController.GetInvoice)
		invoices.PUT("/:id", invoiceController.UpdateInvoice)
		invoices.PATCH("/:id/status", invoiceController.UpdateInvoiceStatus)
		invoices.DELETE("/:id", invoiceController.DeleteInvoice)

		invoices.POST("/:id/send-message", messageController.SendMessage)
		invoices.GET("/:id/messages", messageController.GetMessages)
	}

	ai := api.Group("/ai", requireAuth)
	{
		ai.POST("/parse-invoice", aiController.ParseInvoice)
		ai.POST("/generate-reminder", aiController.GenerateReminder)
		ai.POST("/dashboard-summary", aiController.GetDashboardSummary)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", config.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func healthCheck(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
