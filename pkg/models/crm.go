package models

import "strings"

// Contact is the canonical normalized contact shape produced by field
// extraction. Fields with no match stay empty strings, never null.
type Contact struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
}

// NormalizePhone converts a raw phone string to E.164 form: digits only, a
// leading + preserved, and the default country code prepended when the number
// carries none.
func NormalizePhone(raw, defaultCountryCode string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	hasPlus := strings.HasPrefix(raw, "+")

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}

	if hasPlus {
		return "+" + number
	}

	cc := strings.TrimPrefix(defaultCountryCode, "+")
	if cc != "" && strings.HasPrefix(number, cc) && len(number) > len(cc)+9 {
		// Already carries the country code, e.g. 15551234567 with +1.
		return "+" + number
	}
	return "+" + cc + number
}
