package leads

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"lead-gateway/internal/meta"
	"lead-gateway/internal/models"

	"gorm.io/gorm"
)

// ErrLeadNotFound means neither the provider API nor the test-fixture store
// could produce field data for a leadgen id. The caller skips the lead; no
// retry is scheduled.
var ErrLeadNotFound = errors.New("leads: lead not found")

// TestLeadTTL is how long a test fixture stays resolvable.
const TestLeadTTL = time.Hour

// Resolver turns an ephemeral leadgen id into full field data, preferring the
// Graph API and falling back to stored test fixtures for testing-tool ids.
type Resolver struct {
	db           *gorm.DB
	graphBaseURL string
	pageToken    string
}

func NewResolver(db *gorm.DB, graphBaseURL, pageToken string) *Resolver {
	return &Resolver{db: db, graphBaseURL: graphBaseURL, pageToken: pageToken}
}

// Resolve fetches the field data behind a leadgen id.
func (r *Resolver) Resolve(leadgenID string) (map[string]any, error) {
	// Fresh client per call; the token is page-scoped, never process-wide.
	client := meta.NewClient(r.graphBaseURL, r.pageToken)
	detail, err := client.GetLeadDetail(leadgenID)
	if err == nil {
		return detail.Fields(), nil
	}

	if !IsTestLeadID(leadgenID) {
		log.Printf("Lead %s: detail fetch failed: %v", leadgenID, err)
		return nil, ErrLeadNotFound
	}

	log.Printf("Lead %s: detail fetch failed (%v), trying test fixtures", leadgenID, err)
	return r.lookupFixture(leadgenID)
}

// IsTestLeadID reports whether a leadgen id came from the provider's testing
// tool. Testing-tool ids all start with 444444; an explicit test_ prefix is
// accepted for local fixtures.
func IsTestLeadID(id string) bool {
	return strings.HasPrefix(id, "444444") || strings.HasPrefix(id, "test_")
}

// SaveFixture stores test field data for a leadgen id with a one-hour TTL,
// replacing any previous fixture for the same id.
func (r *Resolver) SaveFixture(leadgenID string, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	fixture := models.TestLead{
		LeadgenID: leadgenID,
		FieldData: string(data),
		ExpiresAt: time.Now().Add(TestLeadTTL),
	}
	return r.db.Save(&fixture).Error
}

func (r *Resolver) lookupFixture(leadgenID string) (map[string]any, error) {
	var fixture models.TestLead
	err := r.db.First(&fixture, "leadgen_id = ? AND expires_at > ?", leadgenID, time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(fixture.FieldData), &fields); err != nil {
		return nil, ErrLeadNotFound
	}
	return fields, nil
}
