package leads

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-gateway/internal/database"
	"lead-gateway/internal/meta"
	"lead-gateway/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// graphServer answers lead detail requests for the given ids and rejects
// everything else the way the real API rejects expired or test ids.
func graphServer(t *testing.T, known map[string]meta.LeadDetail) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		detail, ok := known[id]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"message":"Unsupported get request"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(detail)
	}))
}

func TestResolveFromAPI(t *testing.T) {
	db := newTestDB(t)
	srv := graphServer(t, map[string]meta.LeadDetail{
		"987654321": {
			ID: "987654321",
			FieldData: []meta.FieldValue{
				{Name: "email", Values: []string{"jane@acme.io"}},
				{Name: "full_name", Values: []string{"Jane Doe"}},
				{Name: "phone_number", Values: []string{"+15551234567"}},
			},
		},
	})
	defer srv.Close()

	r := NewResolver(db, srv.URL, "page-token")
	fields, err := r.Resolve("987654321")

	require.NoError(t, err)
	assert.Equal(t, "jane@acme.io", fields["email"])
	assert.Equal(t, "Jane Doe", fields["full_name"])
}

func TestResolveFallsBackToFixture(t *testing.T) {
	db := newTestDB(t)
	srv := graphServer(t, nil)
	defer srv.Close()

	r := NewResolver(db, srv.URL, "page-token")
	require.NoError(t, r.SaveFixture("444444001122", map[string]any{"email": "test@x.com"}))

	fields, err := r.Resolve("444444001122")
	require.NoError(t, err)
	assert.Equal(t, "test@x.com", fields["email"])
}

func TestResolveIgnoresExpiredFixture(t *testing.T) {
	db := newTestDB(t)
	srv := graphServer(t, nil)
	defer srv.Close()

	fixture := models.TestLead{
		LeadgenID: "444444999",
		FieldData: `{"email":"old@x.com"}`,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&fixture).Error)

	r := NewResolver(db, srv.URL, "page-token")
	_, err := r.Resolve("444444999")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestResolveNonTestIDNoFallback(t *testing.T) {
	db := newTestDB(t)
	srv := graphServer(t, nil)
	defer srv.Close()

	r := NewResolver(db, srv.URL, "page-token")
	require.NoError(t, r.SaveFixture("test_fixture", map[string]any{"email": "test@x.com"}))

	// A real-looking id never reads fixtures, even if one happens to exist.
	_, err := r.Resolve("987654321")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestIsTestLeadID(t *testing.T) {
	assert.True(t, IsTestLeadID("444444001122"))
	assert.True(t, IsTestLeadID("test_local_1"))
	assert.False(t, IsTestLeadID("987654321"))
}

func TestSaveFixtureReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	srv := graphServer(t, nil)
	defer srv.Close()

	r := NewResolver(db, srv.URL, "page-token")
	require.NoError(t, r.SaveFixture("test_replace", map[string]any{"email": "one@x.com"}))
	require.NoError(t, r.SaveFixture("test_replace", map[string]any{"email": "two@x.com"}))

	fields, err := r.Resolve("test_replace")
	require.NoError(t, err)
	assert.Equal(t, "two@x.com", fields["email"])

	var count int64
	require.NoError(t, db.Model(&models.TestLead{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
