// Package payment holds the pure verification helpers consumed by the
// payment webhook. Order creation and gateway calls live outside this
// service; only signature checking is needed here.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks the gateway signature for a captured
// payment. The gateway signs "<orderID>|<paymentID>" with the shared
// secret using HMAC-SHA256 and sends the hex digest alongside the webhook.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	return verify(orderID+"|"+paymentID, signature, secret)
}

// VerifyWebhookSignature checks the signature header of a raw webhook body.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	return verify(string(body), signature, secret)
}

func verify(payload, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	// Constant-time compare; the signature is attacker-controlled input.
	return hmac.Equal([]byte(expected), []byte(signature))
}
