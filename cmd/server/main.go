package main

import (
	"log"
	"net/http"

	"lead-gateway/internal/api"
	"lead-gateway/internal/campaign"
	"lead-gateway/internal/config"
	"lead-gateway/internal/contacts"
	"lead-gateway/internal/database"
	"lead-gateway/internal/dispatch"
	"lead-gateway/internal/leads"
	"lead-gateway/internal/vapi"
	"lead-gateway/internal/webhook"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	db := database.Init(cfg)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	vapiClient := vapi.NewClient(cfg.VapiBaseURL, cfg.VapiAPIKey)
	contactStore := contacts.NewStore(db, cfg.DefaultCountryCode)
	launcher := campaign.NewLauncher(db, vapiClient, cfg.DefaultCountryCode, cfg.AutoLaunchDelay)
	dispatcher := dispatch.NewDispatcher(contactStore, launcher)
	resolver := leads.NewResolver(db, cfg.MetaGraphBaseURL, cfg.MetaPageToken)

	webhookHandler := webhook.NewHandler(cfg, db, dispatcher, resolver)
	adminHandler := api.NewWebhookHandler(db, resolver)
	listHandler := api.NewListHandler(db, contactStore)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "lead-gateway"})
	})

	// Webhook Routes
	r.GET("/webhook/meta", webhookHandler.VerifyMeta)
	r.POST("/webhook/meta", webhookHandler.HandleMetaLeadgen)
	r.POST("/webhook/vapi/:id", webhookHandler.HandleVapi)
	r.Any("/webhook/:id", webhookHandler.HandleGeneric)

	// Admin API Routes
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/webhooks", adminHandler.CreateWebhook)
		apiGroup.GET("/webhooks", adminHandler.GetWebhooks)
		apiGroup.GET("/webhooks/:id", adminHandler.GetWebhook)
		apiGroup.PUT("/webhooks/:id", adminHandler.UpdateWebhook)
		apiGroup.DELETE("/webhooks/:id", adminHandler.DeleteWebhook)
		apiGroup.GET("/webhooks/:id/events", adminHandler.GetWebhookEvents)

		apiGroup.POST("/lists", listHandler.CreateList)
		apiGroup.GET("/lists", listHandler.GetLists)
		apiGroup.GET("/lists/:id/contacts", listHandler.GetListContacts)

		apiGroup.POST("/test-leads", adminHandler.CreateTestLead)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
