package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kerjalink/kerjapay/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *XenditClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewXenditClient(config.GatewayConfig{
		BaseURL: server.URL,
		APIKey:  "xnd_test_key",
	})
}

func TestCreateTopUpPayment(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/qr_codes", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "xnd_test_key", user)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "topup_abc", payload["external_id"])
		assert.Equal(t, float64(504000), payload["amount"])
		assert.Equal(t, "IDR", payload["currency"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "qr_123",
			"qr_string":   "00020101021226...",
			"status":      "ACTIVE",
			"payment_url": "https://checkout.example/qr_123",
			"expires_at":  "2026-01-02T15:04:05Z",
		})
	})

	payment, err := client.CreateTopUpPayment(context.Background(), "topup_abc", 504000, "Wallet top-up", 60)
	require.NoError(t, err)
	assert.Equal(t, "qr_123", payment.ID)
	assert.NotEmpty(t, payment.QRString)
	assert.NotEmpty(t, payment.PaymentURL)
	assert.Equal(t, "ACTIVE", payment.Status)
}

func TestCreatePayout(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/disbursements", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "BCA", payload["bank_code"])
		assert.Equal(t, float64(196000), payload["amount"])
		assert.Equal(t, "Budi Santoso", payload["account_holder_name"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                     "disb_456",
			"status":                 "PENDING",
			"estimated_arrival_date": "2026-09-01",
		})
	})

	payout, err := client.CreatePayout(context.Background(), CreatePayoutInput{
		ExternalID:        "payout_abc",
		Amount:            196000,
		BankCode:          "BCA",
		AccountNumber:     "1234567890",
		AccountHolderName: "Budi Santoso",
		Description:       "Withdrawal",
	})
	require.NoError(t, err)
	assert.Equal(t, "disb_456", payout.ID)
	assert.Equal(t, "PENDING", payout.Status)
	require.NotNil(t, payout.EstimatedArrivalDate)
	assert.Equal(t, "2026-09-01", payout.EstimatedArrivalDate.Format("2006-01-02"))
}

func TestGatewayErrorResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error_code": "INVALID_DESTINATION",
			"message":    "Bank account could not be validated",
		})
	})

	_, err := client.CreatePayout(context.Background(), CreatePayoutInput{
		ExternalID: "payout_abc",
		Amount:     196000,
		BankCode:   "BCA",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_DESTINATION")
}

func TestGatewayOpaqueError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	_, err := client.GetPayoutStatus(context.Background(), "disb_456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
