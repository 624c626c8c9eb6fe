package campaign

import (
	"log"
	"time"

	"lead-gateway/internal/dispatch"
	"lead-gateway/internal/models"
	"lead-gateway/internal/vapi"
	pkgmodels "lead-gateway/pkg/models"

	"gorm.io/gorm"
)

// Launcher creates outbound calling campaigns for resolved leads. The lead's
// campaign_created flag, claimed by a conditional UPDATE, is the sole
// idempotency gate; a lead gets at most one campaign.
type Launcher struct {
	db                 *gorm.DB
	client             *vapi.Client
	defaultCountryCode string
	autoLaunchDelay    time.Duration
}

func NewLauncher(db *gorm.DB, client *vapi.Client, defaultCountryCode string, autoLaunchDelay time.Duration) *Launcher {
	return &Launcher{
		db:                 db,
		client:             client,
		defaultCountryCode: defaultCountryCode,
		autoLaunchDelay:    autoLaunchDelay,
	}
}

// LaunchForLead builds and submits a campaign with one customer entry for the
// lead's contact. Validation failures and downstream call failures are logged
// and swallowed; the delivery that carried the lead already succeeded from
// the sender's point of view.
func (l *Launcher) LaunchForLead(lead *models.Lead, contact pkgmodels.Contact, cfg dispatch.CampaignActionConfig) error {
	// Advisory read; the conditional update below is what actually decides.
	if lead.CampaignCreated {
		log.Printf("Lead %s: campaign already created (%s), skipping", lead.LeadgenID, lead.CampaignID)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("Lead %s: campaign config invalid: %v", lead.LeadgenID, err)
		return nil
	}

	number := pkgmodels.NormalizePhone(contact.PhoneNumber, l.defaultCountryCode)
	if number == "" {
		log.Printf("Lead %s: no phone number, campaign skipped", lead.LeadgenID)
		return nil
	}

	// Claim the idempotency gate: set the flag where not already set. Zero
	// rows affected means a concurrent delivery of the same lead id won.
	claim := l.db.Model(&models.Lead{}).
		Where("leadgen_id = ? AND campaign_created = ?", lead.LeadgenID, false).
		UpdateColumn("campaign_created", true)
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		log.Printf("Lead %s: campaign creation already claimed elsewhere", lead.LeadgenID)
		return nil
	}
	lead.CampaignCreated = true

	name := cfg.Name
	if name == "" {
		name = "Lead " + lead.LeadgenID
	}

	created, err := l.client.CreateCampaign(vapi.CampaignRequest{
		Name:          name,
		PhoneNumberID: cfg.PhoneNumberID,
		AssistantID:   cfg.AssistantID,
		WorkflowID:    cfg.WorkflowID,
		Customers: []vapi.Customer{
			{Name: contact.FullName, Number: number},
		},
	})
	if err != nil {
		// The gate stays claimed; replay happens from the event log, not by
		// sender retries.
		log.Printf("Lead %s: campaign creation failed: %v", lead.LeadgenID, err)
		return nil
	}

	lead.CampaignID = created.ID
	if err := l.db.Model(&models.Lead{}).
		Where("leadgen_id = ?", lead.LeadgenID).
		UpdateColumn("campaign_id", created.ID).Error; err != nil {
		log.Printf("Lead %s: failed to store campaign id %s: %v", lead.LeadgenID, created.ID, err)
	}

	record := models.Campaign{
		ID:            created.ID,
		Name:          name,
		PhoneNumberID: cfg.PhoneNumberID,
		AssistantID:   cfg.AssistantID,
		WorkflowID:    cfg.WorkflowID,
		Status:        created.Status,
		AutoLaunch:    cfg.AutoLaunch,
		CustomerCount: 1,
	}
	if err := l.db.Create(&record).Error; err != nil {
		log.Printf("Lead %s: failed to record campaign %s: %v", lead.LeadgenID, created.ID, err)
	}

	log.Printf("Lead %s: campaign %s created (status %s)", lead.LeadgenID, created.ID, created.Status)

	if cfg.AutoLaunch {
		l.autoLaunch(created.ID)
	}
	return nil
}

// autoLaunch waits the configured delay, polls the campaign once, and only
// launches it if the provider still reports it as scheduled. Any failure here
// is logged and swallowed, never retried.
func (l *Launcher) autoLaunch(campaignID string) {
	time.Sleep(l.autoLaunchDelay)

	current, err := l.client.GetCampaign(campaignID)
	if err != nil {
		log.Printf("Campaign %s: auto-launch status poll failed: %v", campaignID, err)
		return
	}
	if current.Status != vapi.StatusScheduled {
		log.Printf("Campaign %s: status %q at poll time, auto-launch skipped", campaignID, current.Status)
		return
	}

	launched, err := l.client.LaunchCampaign(campaignID)
	if err != nil {
		log.Printf("Campaign %s: auto-launch failed: %v", campaignID, err)
		return
	}

	if err := l.db.Model(&models.Campaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("status", launched.Status).Error; err != nil {
		log.Printf("Campaign %s: failed to record launched status: %v", campaignID, err)
	}
	log.Printf("Campaign %s: auto-launched (status %s)", campaignID, launched.Status)
}
