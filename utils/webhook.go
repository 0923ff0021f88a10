package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kerjalink/kerjapay/config"
)

// Canonical webhook event types. Heterogeneous provider payloads are
// normalized into these at the boundary; handlers never inspect raw shapes.
const (
	EventPaymentSucceeded   = "payment_succeeded"
	EventPaymentExpired     = "payment_expired"
	EventPaymentFailed      = "payment_failed"
	EventPayoutCompleted    = "payout_completed"
	EventPayoutFailed       = "payout_failed"
	EventMetricsUpdate      = "metrics_update"
	EventPostPublished      = "post_published"
	EventPostDeleted        = "post_deleted"
	EventPostFailed         = "post_failed"
	EventSubscriptionUpdate = "subscription_update"
	EventUnknown            = "unknown"
)

// WebhookEvent is the canonical form of a verified callback
type WebhookEvent struct {
	Provider      string
	Channel       string
	Type          string
	ExternalID    string
	GatewayID     string
	Status        string
	FailureReason string
	Views         int64
	Likes         int64
}

// WebhookVerifier authenticates inbound callbacks against the registered
// providers. Secrets are injected at construction, not read from the
// environment per request.
type WebhookVerifier struct {
	providers []config.WebhookProvider
}

// NewWebhookVerifier creates a verifier over the given provider registry
func NewWebhookVerifier(providers []config.WebhookProvider) *WebhookVerifier {
	return &WebhookVerifier{providers: providers}
}

// Verify authenticates a callback. The callback does not always identify its
// sender, so every registered provider is probed in order and the first
// matching one wins. Linear probing is fine at the provider counts we run.
func (v *WebhookVerifier) Verify(headers http.Header, body []byte) (*config.WebhookProvider, error) {
	for i := range v.providers {
		provider := &v.providers[i]
		header := headers.Get(provider.SignatureHeader)
		if header == "" {
			continue
		}
		switch provider.Scheme {
		case config.WebhookSchemeSharedSecret:
			if subtle.ConstantTimeCompare([]byte(header), []byte(provider.Secret)) == 1 {
				return provider, nil
			}
		case config.WebhookSchemeHMACSHA256:
			if verifyHMAC(provider.Secret, body, header) {
				return provider, nil
			}
		}
	}
	return nil, NewSignatureError("Webhook signature verification failed")
}

// verifyHMAC checks an HMAC-SHA256 hex signature over the raw body.
// Accepts an optional "sha256=" prefix on the header value.
func verifyHMAC(secret string, body []byte, signature string) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// ComputeHMACSignature returns the hex HMAC-SHA256 of body under secret.
// Used when registering outbound secrets and by tests.
func ComputeHMACSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// pickString returns the first non-empty string among the named keys
func pickString(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// pickInt64 returns the first numeric value among the named keys
func pickInt64(payload map[string]interface{}, keys ...string) int64 {
	for _, key := range keys {
		if v, ok := payload[key].(float64); ok {
			return int64(v)
		}
	}
	return 0
}

// ClassifyPaymentEvent normalizes a financial-channel payload. Providers use
// several field-name aliases for the same logical value; all of them are
// resolved here so handlers see one shape. Unrecognized payloads come back
// as EventUnknown and are acknowledged without action.
func ClassifyPaymentEvent(provider *config.WebhookProvider, body []byte) *WebhookEvent {
	event := &WebhookEvent{
		Provider: provider.Name,
		Channel:  provider.Channel,
		Type:     EventUnknown,
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return event
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		// Some providers nest the object under "data"
		for k, v := range data {
			if _, exists := payload[k]; !exists {
				payload[k] = v
			}
		}
	}

	event.ExternalID = pickString(payload, "external_id", "reference_id", "externalID", "reference")
	event.GatewayID = pickString(payload, "id", "payment_id", "disbursement_id")
	event.Status = strings.ToUpper(pickString(payload, "status", "payment_status"))
	event.FailureReason = pickString(payload, "failure_code", "failure_reason", "error_message")

	switch {
	case strings.HasPrefix(event.ExternalID, "topup_"):
		switch event.Status {
		case "SUCCEEDED", "COMPLETED", "PAID", "SUCCESS":
			event.Type = EventPaymentSucceeded
		case "EXPIRED":
			event.Type = EventPaymentExpired
		case "FAILED":
			event.Type = EventPaymentFailed
		}
	case strings.HasPrefix(event.ExternalID, "payout_"):
		switch event.Status {
		case "COMPLETED", "SUCCEEDED", "SUCCESS":
			event.Type = EventPayoutCompleted
		case "FAILED":
			event.Type = EventPayoutFailed
		}
	}
	return event
}

// ClassifySocialEvent normalizes a social-distribution callback into its
// canonical event type.
func ClassifySocialEvent(provider *config.WebhookProvider, body []byte) *WebhookEvent {
	event := &WebhookEvent{
		Provider: provider.Name,
		Channel:  provider.Channel,
		Type:     EventUnknown,
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return event
	}

	event.ExternalID = pickString(payload, "post_id", "external_id", "id")
	event.FailureReason = pickString(payload, "failure_reason", "error", "error_message")
	event.Views = pickInt64(payload, "views", "view_count", "impressions")
	event.Likes = pickInt64(payload, "likes", "like_count", "reactions")
	name := strings.ToLower(pickString(payload, "event", "event_type", "type"))
	name = strings.ReplaceAll(name, ".", "_")

	switch name {
	case "metrics_update", "metrics_updated":
		event.Type = EventMetricsUpdate
	case "post_published", "published":
		event.Type = EventPostPublished
	case "post_deleted", "deleted":
		event.Type = EventPostDeleted
	case "post_failed", "failed":
		event.Type = EventPostFailed
	case "subscription_update", "subscription_updated":
		event.Type = EventSubscriptionUpdate
	}
	return event
}
