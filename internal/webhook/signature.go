package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrSignatureMismatch is returned when a delivery carries a signature that
// does not match the HMAC of its payload.
var ErrSignatureMismatch = errors.New("webhook: signature mismatch")

// Verifier validates an HMAC-SHA256 hex signature over a raw payload.
// Enforcement is optional: an absent signature passes, only a present but
// wrong one fails.
type Verifier struct {
	Secret string
	Prefix string // signature scheme prefix, e.g. "sha256=" for Meta
}

func (v Verifier) Verify(payload []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" || v.Secret == "" {
		return nil
	}
	signature = strings.TrimPrefix(signature, v.Prefix)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	// hmac.Equal is constant-time; never short-circuit here.
	if !hmac.Equal(provided, expected) {
		return ErrSignatureMismatch
	}
	return nil
}
