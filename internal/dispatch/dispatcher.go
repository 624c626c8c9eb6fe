package dispatch

import (
	"errors"
	"log"

	"lead-gateway/internal/models"
	pkgmodels "lead-gateway/pkg/models"
)

// ErrListNotFound is returned by ListStore implementations when the target
// list id does not exist. The dispatcher treats it as a configuration
// warning, not a dispatch failure.
var ErrListNotFound = errors.New("dispatch: list not found")

// ListStore appends a normalized contact to a list.
type ListStore interface {
	AddContact(listID string, contact pkgmodels.Contact, rawPayload []byte) (*models.ListContact, error)
}

// CampaignCreator launches a calling campaign for a resolved lead. The
// contact is passed explicitly; the creator must not assume a prior list
// write happened.
type CampaignCreator interface {
	LaunchForLead(lead *models.Lead, contact pkgmodels.Contact, cfg CampaignActionConfig) error
}

// Dispatcher routes a webhook's configured action cards to their handlers.
type Dispatcher struct {
	Contacts  ListStore
	Campaigns CampaignCreator
}

func NewDispatcher(contacts ListStore, campaigns CampaignCreator) *Dispatcher {
	return &Dispatcher{Contacts: contacts, Campaigns: campaigns}
}

// Dispatch executes the webhook's action cards for one delivery. Cards are
// looked up by type: the list card gates everything, the campaign card runs
// only for deliveries that resolved a Lead. A nil return means the delivery
// was handled (possibly by deciding to skip); errors are reserved for
// failures worth a dispatch_error event row.
func (d *Dispatcher) Dispatch(wh *models.Webhook, contact pkgmodels.Contact, lead *models.Lead, rawPayload []byte) error {
	cards, err := DecodeCards(wh.Actions)
	if err != nil {
		return err
	}

	listCard, hasList := findCard(cards, CardAddToList)
	if !hasList {
		// No list card configured: no contact storage, no campaign.
		return nil
	}

	listCfg, err := listCard.listConfig()
	if err != nil {
		log.Printf("Webhook %s: list card skipped: %v", wh.ID, err)
		return nil
	}

	record, err := d.Contacts.AddContact(listCfg.ListID, contact, rawPayload)
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			log.Printf("Webhook %s: list %s not found, dispatch stopped", wh.ID, listCfg.ListID)
			return nil
		}
		return err
	}
	if lead != nil {
		lead.ListID = listCfg.ListID
	}
	log.Printf("Webhook %s: contact %d stored in list %s", wh.ID, record.ID, listCfg.ListID)

	campaignCard, hasCampaign := findCard(cards, CardCreateCampaign)
	if !hasCampaign {
		return nil
	}
	if lead == nil {
		log.Printf("Webhook %s: campaign card skipped: no lead context", wh.ID)
		return nil
	}

	campaignCfg, err := campaignCard.campaignConfig()
	if err != nil {
		log.Printf("Webhook %s: campaign card skipped: %v", wh.ID, err)
		return nil
	}

	return d.Campaigns.LaunchForLead(lead, contact, campaignCfg)
}
