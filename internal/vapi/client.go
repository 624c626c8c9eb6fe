package vapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Campaign statuses the launcher cares about.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
)

// Client talks to the outbound-calling provider's HTTP API.
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Customer is one callee in a campaign.
type Customer struct {
	Name   string `json:"name,omitempty"`
	Number string `json:"number"` // E.164
}

type CampaignRequest struct {
	Name          string     `json:"name"`
	PhoneNumberID string     `json:"phoneNumberId"`
	AssistantID   string     `json:"assistantId,omitempty"`
	WorkflowID    string     `json:"workflowId,omitempty"`
	Customers     []Customer `json:"customers"`
}

type Campaign struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (c *Client) sendRequest(method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

// CreateCampaign submits a campaign-creation request and returns the
// provider's campaign record.
func (c *Client) CreateCampaign(req CampaignRequest) (*Campaign, error) {
	url := fmt.Sprintf("%s/campaign", c.BaseURL)
	resp, err := c.sendRequest("POST", url, req)
	if err != nil {
		return nil, err
	}

	var campaign Campaign
	if err := json.Unmarshal(resp, &campaign); err != nil {
		return nil, fmt.Errorf("parse campaign response: %w", err)
	}
	return &campaign, nil
}

// GetCampaign reads back a campaign's current status.
func (c *Client) GetCampaign(id string) (*Campaign, error) {
	url := fmt.Sprintf("%s/campaign/%s", c.BaseURL, id)
	resp, err := c.sendRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	var campaign Campaign
	if err := json.Unmarshal(resp, &campaign); err != nil {
		return nil, fmt.Errorf("parse campaign response: %w", err)
	}
	return &campaign, nil
}

// LaunchCampaign transitions a scheduled campaign to in-progress.
func (c *Client) LaunchCampaign(id string) (*Campaign, error) {
	url := fmt.Sprintf("%s/campaign/%s", c.BaseURL, id)
	resp, err := c.sendRequest("PATCH", url, map[string]string{"status": StatusInProgress})
	if err != nil {
		return nil, err
	}

	var campaign Campaign
	if err := json.Unmarshal(resp, &campaign); err != nil {
		return nil, fmt.Errorf("parse campaign response: %w", err)
	}
	return &campaign, nil
}
