package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lead-gateway/internal/contacts"
	"lead-gateway/internal/database"
	"lead-gateway/internal/leads"
	"lead-gateway/internal/models"
	pkgmodels "lead-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	resolver := leads.NewResolver(db, "http://unreachable.invalid", "")
	store := contacts.NewStore(db, "+1")
	webhooks := NewWebhookHandler(db, resolver)
	lists := NewListHandler(db, store)

	r := gin.New()
	grp := r.Group("/api")
	{
		grp.POST("/webhooks", webhooks.CreateWebhook)
		grp.GET("/webhooks", webhooks.GetWebhooks)
		grp.GET("/webhooks/:id", webhooks.GetWebhook)
		grp.PUT("/webhooks/:id", webhooks.UpdateWebhook)
		grp.DELETE("/webhooks/:id", webhooks.DeleteWebhook)
		grp.GET("/webhooks/:id/events", webhooks.GetWebhookEvents)
		grp.POST("/test-leads", webhooks.CreateTestLead)
		grp.POST("/lists", lists.CreateList)
		grp.GET("/lists", lists.GetLists)
		grp.GET("/lists/:id/contacts", lists.GetListContacts)
	}
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateWebhook(t *testing.T) {
	r, db := newTestRouter(t)

	body := `{"name":"Signups","actions":"[{\"type\":\"add_to_list\",\"config\":{\"listId\":\"list-1\"}}]"}`
	w := doJSON(t, r, "POST", "/api/webhooks", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var wh models.Webhook
	require.NoError(t, db.First(&wh, "name = ?", "Signups").Error)
	assert.NotEmpty(t, wh.ID)
	assert.Equal(t, "generic", wh.TriggerType)
	assert.True(t, wh.Active)
}

func TestCreateWebhookRejectsBrokenActions(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "POST", "/api/webhooks", `{"name":"Bad","actions":"{\"not\":\"an array\"}"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWebhookRequiresName(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "POST", "/api/webhooks", `{"actions":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateWebhookPartial(t *testing.T) {
	r, db := newTestRouter(t)
	wh := models.Webhook{ID: uuid.NewString(), Name: "Before", TriggerType: "generic", Active: true}
	require.NoError(t, db.Create(&wh).Error)

	w := doJSON(t, r, "PUT", "/api/webhooks/"+wh.ID, `{"active":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Webhook
	require.NoError(t, db.First(&got, "id = ?", wh.ID).Error)
	assert.False(t, got.Active)
	assert.Equal(t, "Before", got.Name)
}

func TestUpdateWebhookRejectsBrokenActions(t *testing.T) {
	r, db := newTestRouter(t)
	wh := models.Webhook{ID: uuid.NewString(), Name: "Before", TriggerType: "generic", Active: true}
	require.NoError(t, db.Create(&wh).Error)

	w := doJSON(t, r, "PUT", "/api/webhooks/"+wh.ID, `{"actions":"[{"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteWebhook(t *testing.T) {
	r, db := newTestRouter(t)
	wh := models.Webhook{ID: uuid.NewString(), Name: "Gone", TriggerType: "generic"}
	require.NoError(t, db.Create(&wh).Error)

	w := doJSON(t, r, "DELETE", "/api/webhooks/"+wh.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "DELETE", "/api/webhooks/"+wh.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWebhookEvents(t *testing.T) {
	r, db := newTestRouter(t)
	wh := models.Webhook{ID: uuid.NewString(), Name: "Logged", TriggerType: "generic"}
	require.NoError(t, db.Create(&wh).Error)
	require.NoError(t, db.Create(&models.WebhookEvent{WebhookID: wh.ID, Method: "POST", Status: "received"}).Error)
	require.NoError(t, db.Create(&models.WebhookEvent{WebhookID: wh.ID, Method: "POST", Status: "dispatch_error"}).Error)

	w := doJSON(t, r, "GET", "/api/webhooks/"+wh.ID+"/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dispatch_error")

	w = doJSON(t, r, "GET", "/api/webhooks/"+uuid.NewString()+"/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTestLead(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(t, r, "POST", "/api/test-leads", `{"leadgen_id":"444444001122","fields":{"email":"t@x.com"}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var fixture models.TestLead
	require.NoError(t, db.First(&fixture, "leadgen_id = ?", "444444001122").Error)
	assert.Contains(t, fixture.FieldData, "t@x.com")
}

func TestCreateTestLeadRejectsRealID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, "POST", "/api/test-leads", `{"leadgen_id":"987654321","fields":{"email":"t@x.com"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLifecycle(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(t, r, "POST", "/api/lists", `{"name":"Inbound"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var list models.List
	require.NoError(t, db.First(&list, "name = ?", "Inbound").Error)

	store := contacts.NewStore(db, "+1")
	_, err := store.AddContact(list.ID, pkgmodels.Contact{Email: "a@x.com", FullName: "a"}, nil)
	require.NoError(t, err)

	w = doJSON(t, r, "GET", "/api/lists/"+list.ID+"/contacts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")

	w = doJSON(t, r, "GET", "/api/lists/"+uuid.NewString()+"/contacts", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
