package controllers

import (
	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/gateway"
	"github.com/kerjalink/kerjapay/utils"
)

var (
	gatewayClient   gateway.Client
	webhookVerifier *utils.WebhookVerifier
	paymentConfig   = config.DefaultPaymentConfig()
)

// SetGatewayClient wires the payment gateway client used by the top-up and
// payout orchestrators. Called once at startup; tests inject fakes.
func SetGatewayClient(client gateway.Client) {
	gatewayClient = client
}

// SetWebhookVerifier wires the verifier for inbound callbacks
func SetWebhookVerifier(verifier *utils.WebhookVerifier) {
	webhookVerifier = verifier
}

// SetPaymentConfig wires the fee and limit configuration
func SetPaymentConfig(cfg config.PaymentConfig) {
	paymentConfig = cfg
}
