package webhook

import (
	"strconv"
	"strings"

	"lead-gateway/pkg/models"
)

// Alias keys tried in priority order for each canonical contact field.
// Senders name these fields every way imaginable.
var (
	emailAliases     = []string{"email", "emailAddress", "Email", "email_address", "work_email"}
	fullNameAliases  = []string{"fullName", "full_name", "name", "Name"}
	phoneAliases     = []string{"phoneNumber", "phone_number", "phone", "Phone", "mobile", "mobile_number", "tel"}
	firstNameAliases = []string{"firstName", "first_name", "FirstName"}
	lastNameAliases  = []string{"lastName", "last_name", "LastName"}
	companyAliases   = []string{"company", "companyName", "company_name", "organization"}
)

// ExtractContact normalizes an arbitrary JSON object into the canonical
// contact shape. Missing fields are empty strings so downstream storage never
// sees nulls.
func ExtractContact(payload map[string]any) models.Contact {
	contact := models.Contact{
		Email:       lookup(payload, emailAliases),
		FullName:    lookup(payload, fullNameAliases),
		PhoneNumber: lookup(payload, phoneAliases),
		FirstName:   lookup(payload, firstNameAliases),
		LastName:    lookup(payload, lastNameAliases),
		Company:     lookup(payload, companyAliases),
	}

	if contact.FullName == "" {
		if contact.FirstName != "" || contact.LastName != "" {
			contact.FullName = strings.TrimSpace(contact.FirstName + " " + contact.LastName)
		} else if contact.Email != "" {
			// Fall back to the local part of the email address.
			contact.FullName = strings.SplitN(contact.Email, "@", 2)[0]
		}
	}

	return contact
}

func lookup(payload map[string]any, aliases []string) string {
	for _, key := range aliases {
		value, ok := payload[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			// Phone numbers sometimes arrive as JSON numbers.
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
