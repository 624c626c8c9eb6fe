package api

import (
	"net/http"

	"lead-gateway/internal/dispatch"
	"lead-gateway/internal/leads"
	"lead-gateway/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	DB       *gorm.DB
	Resolver *leads.Resolver
}

func NewWebhookHandler(db *gorm.DB, resolver *leads.Resolver) *WebhookHandler {
	return &WebhookHandler{DB: db, Resolver: resolver}
}

type CreateWebhookRequest struct {
	Name        string `json:"name" binding:"required"`
	TriggerType string `json:"trigger_type"`
	Actions     string `json:"actions"`
	Metadata    string `json:"metadata"`
}

func (h *WebhookHandler) CreateWebhook(c *gin.Context) {
	var req CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TriggerType == "" {
		req.TriggerType = "generic"
	}
	// Reject action-card arrays that will never decode at dispatch time.
	if _, err := dispatch.DecodeCards(req.Actions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actions: " + err.Error()})
		return
	}

	wh := models.Webhook{
		ID:          uuid.NewString(),
		Name:        req.Name,
		TriggerType: req.TriggerType,
		Active:      true,
		Actions:     req.Actions,
		Metadata:    req.Metadata,
	}
	if err := h.DB.Create(&wh).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create webhook"})
		return
	}

	c.JSON(http.StatusCreated, wh)
}

func (h *WebhookHandler) GetWebhooks(c *gin.Context) {
	var webhooks []models.Webhook
	if err := h.DB.Order("created_at DESC").Find(&webhooks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if webhooks == nil {
		webhooks = []models.Webhook{}
	}
	c.JSON(http.StatusOK, webhooks)
}

func (h *WebhookHandler) GetWebhook(c *gin.Context) {
	var wh models.Webhook
	if err := h.DB.First(&wh, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
		return
	}
	c.JSON(http.StatusOK, wh)
}

type UpdateWebhookRequest struct {
	Name     *string `json:"name"`
	Active   *bool   `json:"active"`
	Actions  *string `json:"actions"`
	Metadata *string `json:"metadata"`
}

func (h *WebhookHandler) UpdateWebhook(c *gin.Context) {
	var wh models.Webhook
	if err := h.DB.First(&wh, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
		return
	}

	var req UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		wh.Name = *req.Name
	}
	if req.Active != nil {
		wh.Active = *req.Active
	}
	if req.Actions != nil {
		if _, err := dispatch.DecodeCards(*req.Actions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actions: " + err.Error()})
			return
		}
		wh.Actions = *req.Actions
	}
	if req.Metadata != nil {
		wh.Metadata = *req.Metadata
	}

	if err := h.DB.Save(&wh).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update webhook"})
		return
	}
	c.JSON(http.StatusOK, wh)
}

func (h *WebhookHandler) DeleteWebhook(c *gin.Context) {
	result := h.DB.Delete(&models.Webhook{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete webhook"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Webhook deleted"})
}

// GetWebhookEvents returns the raw delivery log for a webhook, newest first.
// This is the replay surface for deliveries whose dispatch failed.
func (h *WebhookHandler) GetWebhookEvents(c *gin.Context) {
	var wh models.Webhook
	if err := h.DB.First(&wh, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
		return
	}

	var events []models.WebhookEvent
	if err := h.DB.Order("received_at DESC").
		Find(&events, "webhook_id = ?", wh.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []models.WebhookEvent{}
	}
	c.JSON(http.StatusOK, events)
}

type CreateTestLeadRequest struct {
	LeadgenID string         `json:"leadgen_id" binding:"required"`
	Fields    map[string]any `json:"fields" binding:"required"`
}

// CreateTestLead stores field data for a testing-tool leadgen id so the
// resolver can fall back to it when the Graph API rejects the id.
func (h *WebhookHandler) CreateTestLead(c *gin.Context) {
	var req CreateTestLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !leads.IsTestLeadID(req.LeadgenID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a test leadgen id"})
		return
	}

	if err := h.Resolver.SaveFixture(req.LeadgenID, req.Fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store test lead"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "Test lead stored", "leadgen_id": req.LeadgenID})
}
