package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kerjalink/kerjapay/config"
)

// XenditClient talks to the Xendit QR code and disbursement APIs over HTTP.
// Credentials come from the injected config, never from process environment.
type XenditClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewXenditClient creates a gateway client from the given configuration
func NewXenditClient(cfg config.GatewayConfig) *XenditClient {
	return &XenditClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type xenditQRResponse struct {
	ID         string    `json:"id"`
	QRString   string    `json:"qr_string"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	PaymentURL string    `json:"payment_url"`
}

type xenditDisbursementResponse struct {
	ID                   string `json:"id"`
	Status               string `json:"status"`
	EstimatedArrivalDate string `json:"estimated_arrival_date"`
	FailureCode          string `json:"failure_code"`
}

type xenditErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// CreateTopUpPayment creates a dynamic QRIS code for a wallet top-up
func (x *XenditClient) CreateTopUpPayment(ctx context.Context, externalID string, amount int64, description string, expiryMinutes int) (*TopUpPayment, error) {
	payload := map[string]interface{}{
		"external_id": externalID,
		"type":        "DYNAMIC",
		"amount":      amount,
		"currency":    "IDR",
		"expires_at":  time.Now().Add(time.Duration(expiryMinutes) * time.Minute).Format(time.RFC3339),
		"metadata": map[string]interface{}{
			"description": description,
		},
	}

	var resp xenditQRResponse
	if err := x.do(ctx, http.MethodPost, "/qr_codes", payload, &resp); err != nil {
		return nil, err
	}

	return &TopUpPayment{
		ID:         resp.ID,
		PaymentURL: resp.PaymentURL,
		QRString:   resp.QRString,
		ExpiresAt:  resp.ExpiresAt,
		Status:     resp.Status,
	}, nil
}

// CreatePayout creates a bank disbursement for a worker withdrawal
func (x *XenditClient) CreatePayout(ctx context.Context, input CreatePayoutInput) (*Payout, error) {
	payload := map[string]interface{}{
		"external_id":         input.ExternalID,
		"amount":              input.Amount,
		"bank_code":           input.BankCode,
		"account_number":      input.AccountNumber,
		"account_holder_name": input.AccountHolderName,
		"description":         input.Description,
	}

	var resp xenditDisbursementResponse
	if err := x.do(ctx, http.MethodPost, "/disbursements", payload, &resp); err != nil {
		return nil, err
	}
	return disbursementToPayout(&resp), nil
}

// GetPayoutStatus looks up a disbursement by the provider's id
func (x *XenditClient) GetPayoutStatus(ctx context.Context, id string) (*Payout, error) {
	var resp xenditDisbursementResponse
	if err := x.do(ctx, http.MethodGet, "/disbursements/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return disbursementToPayout(&resp), nil
}

func disbursementToPayout(resp *xenditDisbursementResponse) *Payout {
	payout := &Payout{
		ID:            resp.ID,
		Status:        resp.Status,
		FailureReason: resp.FailureCode,
	}
	if resp.EstimatedArrivalDate != "" {
		if t, err := time.Parse("2006-01-02", resp.EstimatedArrivalDate); err == nil {
			payout.EstimatedArrivalDate = &t
		}
	}
	return payout
}

func (x *XenditClient) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %v", err)
	}
	req.SetBasicAuth(x.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response: %v", err)
	}

	if resp.StatusCode >= 400 {
		var gatewayErr xenditErrorResponse
		if err := json.Unmarshal(data, &gatewayErr); err == nil && gatewayErr.Message != "" {
			return fmt.Errorf("%s: %s", gatewayErr.ErrorCode, gatewayErr.Message)
		}
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode gateway response: %v", err)
		}
	}
	return nil
}
