package models

// LeadgenPayload is the incoming JSON envelope for Meta lead-generation
// webhook deliveries.
type LeadgenPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Time    int64  `json:"time"`
		Changes []struct {
			Field string       `json:"field"`
			Value LeadgenValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// LeadgenValue identifies one created lead. The leadgen id is ephemeral and
// must be resolved against the Graph API for the actual field data.
type LeadgenValue struct {
	LeadgenID   string `json:"leadgen_id"`
	FormID      string `json:"form_id"`
	PageID      string `json:"page_id"`
	AdID        string `json:"ad_id"`
	CreatedTime int64  `json:"created_time"`
}

// WebhookResponse is the acknowledgment body returned to webhook senders.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
