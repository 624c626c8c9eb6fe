package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Card types the dispatcher knows. Unknown types are valid no-ops so senders
// can ship new card kinds before we handle them.
const (
	CardAddToList      = "add_to_list"
	CardCreateCampaign = "create_campaign"
)

var validate = validator.New()

// ActionCard is one declarative step in a webhook's configured response,
// discriminated by Type with a type-specific config object.
type ActionCard struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

type ListActionConfig struct {
	ListID string `json:"listId" validate:"required"`
}

type CampaignActionConfig struct {
	PhoneNumberID string `json:"phoneNumberId" validate:"required"`
	AssistantID   string `json:"assistantId"`
	WorkflowID    string `json:"workflowId"`
	AutoLaunch    bool   `json:"autoLaunch"`
	Name          string `json:"name"`
}

// Validate enforces the campaign card invariant: a phone number id plus at
// least one of assistant id / workflow id.
func (c CampaignActionConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.AssistantID == "" && c.WorkflowID == "" {
		return errors.New("dispatch: campaign card requires assistantId or workflowId")
	}
	return nil
}

// DecodeCards parses a webhook's stored action-card array.
func DecodeCards(raw string) ([]ActionCard, error) {
	if raw == "" {
		return nil, nil
	}
	var cards []ActionCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, fmt.Errorf("dispatch: parse action cards: %w", err)
	}
	return cards, nil
}

// findCard returns the single card of the given type, if configured. Lookup is
// by type, not array position; card order carries no meaning.
func findCard(cards []ActionCard, cardType string) (ActionCard, bool) {
	for _, card := range cards {
		if card.Type == cardType {
			return card, true
		}
	}
	return ActionCard{}, false
}

func (c ActionCard) listConfig() (ListActionConfig, error) {
	var cfg ListActionConfig
	if err := json.Unmarshal(c.Config, &cfg); err != nil {
		return cfg, fmt.Errorf("dispatch: parse list card config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c ActionCard) campaignConfig() (CampaignActionConfig, error) {
	var cfg CampaignActionConfig
	if err := json.Unmarshal(c.Config, &cfg); err != nil {
		return cfg, fmt.Errorf("dispatch: parse campaign card config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
