package webhook

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"lead-gateway/internal/config"
	"lead-gateway/internal/dispatch"
	"lead-gateway/internal/leads"
	"lead-gateway/internal/models"
	pkgmodels "lead-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler is the ingress endpoint for all inbound webhook channels. The raw
// event write is the only step allowed to fail the request; everything after
// it is best-effort and replayable from the event log.
type Handler struct {
	Config     *config.Config
	DB         *gorm.DB
	Dispatcher *dispatch.Dispatcher
	Resolver   *leads.Resolver
}

func NewHandler(cfg *config.Config, db *gorm.DB, dispatcher *dispatch.Dispatcher, resolver *leads.Resolver) *Handler {
	return &Handler{
		Config:     cfg,
		DB:         db,
		Dispatcher: dispatcher,
		Resolver:   resolver,
	}
}

// HandleGeneric accepts a delivery for webhook :id on any HTTP method.
func (h *Handler) HandleGeneric(c *gin.Context) {
	wh, ok := h.lookupWebhook(c, c.Param("id"))
	if !ok {
		return
	}

	body, event, ok := h.recordDelivery(c, wh)
	if !ok {
		return
	}

	h.dispatchGeneric(wh, body, event)

	c.JSON(http.StatusOK, pkgmodels.WebhookResponse{
		Success: true,
		Message: "Event received",
		Data:    gin.H{"webhook_id": wh.ID},
	})
}

// HandleVapi accepts a delivery from the calling provider, verifying its HMAC
// signature before anything is persisted.
func (h *Handler) HandleVapi(c *gin.Context) {
	wh, ok := h.lookupWebhook(c, c.Param("id"))
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	verifier := Verifier{Secret: h.Config.VapiWebhookSecret}
	if err := verifier.Verify(body, c.GetHeader("X-Vapi-Signature")); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, ok := h.persistEvent(c, wh, body)
	if !ok {
		return
	}

	h.dispatchGeneric(wh, body, event)

	c.JSON(http.StatusOK, pkgmodels.WebhookResponse{Success: true, Message: "Event received"})
}

// VerifyMeta answers the lead-generation provider's GET subscription
// handshake: echo the challenge when the verify token matches.
func (h *Handler) VerifyMeta(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "" && token != "" {
		if mode == "subscribe" && token == h.Config.MetaVerifyToken {
			log.Println("Leadgen webhook verified successfully!")
			c.String(http.StatusOK, challenge)
		} else {
			c.Status(http.StatusForbidden)
		}
	} else {
		c.Status(http.StatusBadRequest)
	}
}

// HandleMetaLeadgen accepts lead-generation event deliveries. Each leadgen
// entry is resolved to full field data before dispatch; leads that cannot be
// resolved are skipped.
func (h *Handler) HandleMetaLeadgen(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	verifier := Verifier{Secret: h.Config.MetaAppSecret, Prefix: "sha256="}
	if err := verifier.Verify(body, c.GetHeader("X-Hub-Signature-256")); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var wh models.Webhook
	err = h.DB.First(&wh, "trigger_type = ? AND active = ?", "meta_leadgen", true).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "webhook not found"})
		return
	}

	event, ok := h.persistEvent(c, &wh, body)
	if !ok {
		return
	}

	var payload pkgmodels.LeadgenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("Webhook %s: unparseable leadgen payload: %v", wh.ID, err)
		c.String(http.StatusOK, "OK")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" || change.Value.LeadgenID == "" {
				continue
			}
			if err := h.processLead(&wh, change.Value, body); err != nil {
				h.recordDispatchError(&wh, event, err)
			}
		}
	}

	c.String(http.StatusOK, "OK")
}

// lookupWebhook resolves an active webhook or answers 404. Nothing is
// persisted for unknown or inactive ids.
func (h *Handler) lookupWebhook(c *gin.Context, id string) (*models.Webhook, bool) {
	var wh models.Webhook
	err := h.DB.First(&wh, "id = ? AND active = ?", id, true).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Webhook lookup failed: %v", err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "webhook not found"})
		return nil, false
	}
	return &wh, true
}

func (h *Handler) recordDelivery(c *gin.Context, wh *models.Webhook) ([]byte, *models.WebhookEvent, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return nil, nil, false
	}
	event, ok := h.persistEvent(c, wh, body)
	return body, event, ok
}

// persistEvent writes the raw delivery log row and bumps the webhook's
// delivery counters. A failed write here is the one failure surfaced to the
// sender: losing the log would make the delivery unrecoverable.
func (h *Handler) persistEvent(c *gin.Context, wh *models.Webhook, body []byte) (*models.WebhookEvent, bool) {
	headers, _ := json.Marshal(c.Request.Header)
	query, _ := json.Marshal(c.Request.URL.Query())

	event := models.WebhookEvent{
		WebhookID: wh.ID,
		Method:    c.Request.Method,
		Headers:   string(headers),
		Body:      string(body),
		Query:     string(query),
		Status:    "received",
	}
	if err := h.DB.Create(&event).Error; err != nil {
		log.Printf("Webhook %s: failed to persist event: %v", wh.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record event"})
		return nil, false
	}

	now := time.Now()
	if err := h.DB.Model(&models.Webhook{}).
		Where("id = ?", wh.ID).
		UpdateColumns(map[string]any{
			"trigger_count":     gorm.Expr("trigger_count + 1"),
			"last_triggered_at": now,
		}).Error; err != nil {
		log.Printf("Webhook %s: failed to update counters: %v", wh.ID, err)
	}

	return &event, true
}

// dispatchGeneric runs extraction and action dispatch for a non-lead
// delivery. Failures never change the response; they are logged as a
// secondary error event for replay.
func (h *Handler) dispatchGeneric(wh *models.Webhook, body []byte, event *models.WebhookEvent) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("Webhook %s: non-JSON payload, dispatch skipped", wh.ID)
		return
	}

	contact := ExtractContact(payload)
	if err := h.Dispatcher.Dispatch(wh, contact, nil, body); err != nil {
		h.recordDispatchError(wh, event, err)
	}
}

// processLead resolves one leadgen id and dispatches it with lead context.
func (h *Handler) processLead(wh *models.Webhook, value pkgmodels.LeadgenValue, rawPayload []byte) error {
	lead := models.Lead{
		LeadgenID: value.LeadgenID,
		FormID:    value.FormID,
		PageID:    value.PageID,
	}
	if err := h.DB.Where("leadgen_id = ?", value.LeadgenID).
		FirstOrCreate(&lead).Error; err != nil {
		return err
	}

	fields, err := h.Resolver.Resolve(value.LeadgenID)
	if err != nil {
		log.Printf("Webhook %s: lead %s skipped: %v", wh.ID, value.LeadgenID, err)
		return nil
	}

	contact := ExtractContact(fields)
	fieldData, _ := json.Marshal(fields)

	dispatchErr := h.Dispatcher.Dispatch(wh, contact, &lead, fieldData)

	now := time.Now()
	if err := h.DB.Model(&models.Lead{}).
		Where("leadgen_id = ?", lead.LeadgenID).
		UpdateColumns(map[string]any{
			"field_data":   string(fieldData),
			"processed_at": now,
			"list_id":      lead.ListID,
		}).Error; err != nil {
		log.Printf("Lead %s: failed to record processing state: %v", lead.LeadgenID, err)
	}

	return dispatchErr
}

// recordDispatchError appends a secondary event row marking the failed
// dispatch. The original delivery row stays untouched.
func (h *Handler) recordDispatchError(wh *models.Webhook, event *models.WebhookEvent, dispatchErr error) {
	log.Printf("Webhook %s: dispatch failed: %v", wh.ID, dispatchErr)

	marker := models.WebhookEvent{
		WebhookID: wh.ID,
		Method:    event.Method,
		Body:      dispatchErr.Error(),
		Status:    "dispatch_error",
	}
	if err := h.DB.Create(&marker).Error; err != nil {
		log.Printf("Webhook %s: failed to record dispatch error: %v", wh.ID, err)
	}
}
