package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"meetgraph/application/services"
	"meetgraph/domain/user"
	"meetgraph/pkg/common"
	"meetgraph/pkg/payment"

	"go.uber.org/zap"
)

const (
	maxWebhookBodyBytes  = 64 << 10
	signatureHeader      = "X-Webhook-Signature"
	eventPaymentCaptured = "payment.captured"
)

// PaymentHandler receives payment provider webhooks. The route is not
// behind the JWT middleware; authenticity comes from the HMAC signature
// over the raw body.
type PaymentHandler struct {
	profiles      *services.ProfileService
	webhookSecret string
	logger        *zap.Logger
}

// NewPaymentHandler creates a new payment webhook handler
func NewPaymentHandler(profiles *services.ProfileService, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		profiles:      profiles,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// webhookPayload is the provider's event body
type webhookPayload struct {
	Event string `json:"event"`
	Notes struct {
		UserID         string `json:"userId"`
		MembershipType string `json:"membershipType"`
	} `json:"notes"`
}

// HandleWebhook handles POST /webhooks/payment
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "could not read body")
		return
	}

	signature := r.Header.Get(signatureHeader)
	if !payment.VerifyWebhookSignature(body, signature, h.webhookSecret) {
		h.logger.Warn("Rejected webhook with bad signature", zap.String("remoteAddr", r.RemoteAddr))
		common.RespondError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON payload")
		return
	}

	// Unknown event types are acknowledged so the provider stops
	// retrying them.
	if payload.Event != eventPaymentCaptured {
		h.logger.Debug("Ignoring webhook event", zap.String("event", payload.Event))
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	err = h.profiles.UpgradeMembership(r.Context(), payload.Notes.UserID,
		user.MembershipType(payload.Notes.MembershipType))
	if err != nil {
		h.logger.Error("Failed to apply membership upgrade",
			zap.String("userID", payload.Notes.UserID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
