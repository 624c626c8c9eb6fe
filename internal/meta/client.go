package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches lead detail from the Graph API. Construct one per call with
// the page-scoped token for that request; tokens are never shared through a
// process-wide client.
type Client struct {
	BaseURL     string
	AccessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// LeadDetail is the full field data behind an ephemeral leadgen id.
type LeadDetail struct {
	ID          string       `json:"id"`
	CreatedTime string       `json:"created_time"`
	FieldData   []FieldValue `json:"field_data"`
}

type FieldValue struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Fields flattens field_data into a plain object the field extractor
// understands. Only the first value per field is kept.
func (d *LeadDetail) Fields() map[string]any {
	fields := make(map[string]any, len(d.FieldData))
	for _, fv := range d.FieldData {
		if len(fv.Values) > 0 {
			fields[fv.Name] = fv.Values[0]
		}
	}
	return fields
}

// GetLeadDetail fetches the lead behind a leadgen id.
func (c *Client) GetLeadDetail(leadgenID string) (*LeadDetail, error) {
	url := fmt.Sprintf("%s/%s?fields=id,created_time,field_data", c.BaseURL, leadgenID)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

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
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	var detail LeadDetail
	if err := json.Unmarshal(respBody, &detail); err != nil {
		return nil, fmt.Errorf("parse lead detail: %w", err)
	}
	return &detail, nil
}
