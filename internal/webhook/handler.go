// Package webhook receives asynchronous delivery events from the email
// provider and transitions send records. Events for unknown message ids
// are acknowledged as no-ops: webhooks may arrive for sends this system
// never tracked, or race the email-send insert.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"DocDrop/internal/metrics"
	"DocDrop/internal/models"
)

// Event is the provider's delivery event payload.
type Event struct {
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Data      struct {
		EmailID string `json:"email_id"`
	} `json:"data"`
}

// Store applies status transitions keyed by provider message id. Zero
// matched rows must be treated as success by implementations.
type Store interface {
	UpdateSendStatus(ctx context.Context, providerMessageID string, status models.SendStatus) error
	MarkDelivered(ctx context.Context, providerMessageID string, at time.Time) error
}

type Handler struct {
	store  Store
	secret string
	now    func() time.Time
	log    *zap.Logger
}

// NewHandler creates the webhook handler. An empty secret disables
// signature verification, a deliberately permissive default for
// environments without webhook-secret provisioning.
func NewHandler(store Store, secret string, log *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		secret: secret,
		now:    time.Now,
		log:    log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error("failed to read webhook body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "webhook processing failed"})
		return
	}

	if h.secret != "" && !verifySignature(body, r.Header.Get("svix-signature"), h.secret) {
		h.log.Warn("webhook signature mismatch")
		metrics.WebhookRejected.Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid signature"})
		return
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		h.log.Error("malformed webhook payload", zap.Error(err))
		metrics.WebhookRejected.Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "webhook processing failed"})
		return
	}

	emailID := ev.Data.EmailID
	if emailID == "" {
		metrics.WebhookRejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no email_id"})
		return
	}

	h.log.Info("webhook event received",
		zap.String("type", ev.Type),
		zap.String("email_id", emailID),
	)

	ctx := r.Context()
	switch ev.Type {
	case "email.delivered":
		err = h.store.MarkDelivered(ctx, emailID, h.eventTime(ev))
	case "email.bounced":
		err = h.store.UpdateSendStatus(ctx, emailID, models.StatusBounced)
	case "email.failed":
		err = h.store.UpdateSendStatus(ctx, emailID, models.StatusFailed)
	case "email.complained":
		err = h.store.UpdateSendStatus(ctx, emailID, models.StatusComplained)
	case "email.delivery_delayed":
		err = h.store.UpdateSendStatus(ctx, emailID, models.StatusDelayed)
	case "email.sent":
		err = h.store.UpdateSendStatus(ctx, emailID, models.StatusSent)
	default:
		// email.opened, email.clicked and anything new: acknowledged,
		// no status change.
		h.log.Debug("unhandled webhook event type", zap.String("type", ev.Type))
	}

	if err != nil {
		h.log.Error("webhook status update failed",
			zap.String("type", ev.Type),
			zap.String("email_id", emailID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "webhook processing failed"})
		return
	}

	metrics.WebhookEvents.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

// eventTime is the delivery timestamp carried by the event, not the
// wall-clock receipt time. Unparseable timestamps fall back to receipt
// time rather than dropping the event.
func (h *Handler) eventTime(ev Event) time.Time {
	t, err := time.Parse(time.RFC3339, ev.CreatedAt)
	if err != nil {
		h.log.Warn("unparseable event timestamp, using receipt time",
			zap.String("created_at", ev.CreatedAt),
		)
		return h.now()
	}
	return t
}

// verifySignature compares a hex HMAC-SHA256 of the raw payload against
// the provided header in constant time. A missing header is accepted,
// matching the provider's retry behavior for unsigned deliveries.
func verifySignature(payload []byte, signature, secret string) bool {
	if signature == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
