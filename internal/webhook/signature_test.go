package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyValidSignature(t *testing.T) {
	payload := []byte(`{"event":"lead.created"}`)
	v := Verifier{Secret: "topsecret"}

	require.NoError(t, v.Verify(payload, sign("topsecret", payload)))
}

func TestVerifyPrefixedSignature(t *testing.T) {
	payload := []byte(`{"object":"page"}`)
	v := Verifier{Secret: "appsecret", Prefix: "sha256="}

	require.NoError(t, v.Verify(payload, "sha256="+sign("appsecret", payload)))
}

func TestVerifyFlippedByteFails(t *testing.T) {
	payload := []byte(`{"event":"lead.created"}`)
	v := Verifier{Secret: "topsecret"}
	signature := sign("topsecret", payload)

	tampered := append([]byte(nil), payload...)
	tampered[0] ^= 0x01
	assert.ErrorIs(t, v.Verify(tampered, signature), ErrSignatureMismatch)
}

func TestVerifyWrongSecretFails(t *testing.T) {
	payload := []byte(`{"event":"lead.created"}`)
	v := Verifier{Secret: "topsecret"}

	assert.ErrorIs(t, v.Verify(payload, sign("othersecret", payload)), ErrSignatureMismatch)
}

func TestVerifyAbsentSignaturePasses(t *testing.T) {
	v := Verifier{Secret: "topsecret"}
	assert.NoError(t, v.Verify([]byte("anything"), ""))
}

func TestVerifyGarbageSignatureFails(t *testing.T) {
	v := Verifier{Secret: "topsecret"}
	assert.ErrorIs(t, v.Verify([]byte("anything"), "not-hex-at-all"), ErrSignatureMismatch)
}
