package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Gateway  GatewayConfig
	Payment  PaymentConfig
	Webhooks []WebhookProvider
}

// GatewayConfig carries the payment gateway credentials and endpoint.
// Injected into the gateway client at construction, never read from the
// environment at call sites.
type GatewayConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

// BankFeeTier is one row of the per-bank payout fee table: below or at
// Threshold the payout costs LowFee, above it HighFee.
type BankFeeTier struct {
	Threshold int64
	LowFee    int64
	HighFee   int64
}

// PaymentConfig externalizes every fee and limit constant. Amounts are in
// IDR minor units.
type PaymentConfig struct {
	MinTopUp           int64
	MaxTopUp           int64
	TopUpVariableRate  string
	TopUpFixedFee      int64
	TopUpExpiryMinutes int

	MinPayout int64
	MaxPayout int64
	// BankFeeTiers is keyed by bank code; DefaultFeeTier covers banks
	// without an explicit row.
	BankFeeTiers   map[string]BankFeeTier
	DefaultFeeTier BankFeeTier
}

// Webhook provider channel families
const (
	WebhookChannelPayment = "payment"
	WebhookChannelSocial  = "social"
)

// Webhook verification schemes
const (
	WebhookSchemeSharedSecret = "shared_secret"
	WebhookSchemeHMACSHA256   = "hmac_sha256"
)

// WebhookProvider registers one external callback source with its secret,
// signature header and verification scheme.
type WebhookProvider struct {
	Name            string
	Channel         string
	Scheme          string
	SignatureHeader string
	Secret          string
}

// AppConfig is the loaded configuration, set by LoadConfig
var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		Gateway: GatewayConfig{
			BaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.xendit.co"),
			APIKey:    os.Getenv("GATEWAY_API_KEY"),
			SecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		},
		Payment:  DefaultPaymentConfig(),
		Webhooks: loadWebhookProviders(),
	}

	if v, err := getEnvInt64("MIN_TOP_UP"); err == nil {
		config.Payment.MinTopUp = v
	}
	if v, err := getEnvInt64("MAX_TOP_UP"); err == nil {
		config.Payment.MaxTopUp = v
	}
	if v, err := getEnvInt64("MIN_PAYOUT"); err == nil {
		config.Payment.MinPayout = v
	}
	if v, err := getEnvInt64("MAX_PAYOUT"); err == nil {
		config.Payment.MaxPayout = v
	}
	if v := os.Getenv("TOP_UP_VARIABLE_RATE"); v != "" {
		config.Payment.TopUpVariableRate = v
	}
	if v, err := getEnvInt64("TOP_UP_FIXED_FEE"); err == nil {
		config.Payment.TopUpFixedFee = v
	}
	if v, err := getEnvInt64("TOP_UP_EXPIRY_MINUTES"); err == nil {
		config.Payment.TopUpExpiryMinutes = int(v)
	}

	AppConfig = config
	return config, nil
}

// DefaultPaymentConfig returns the fee and limit defaults used when no
// environment override is present.
func DefaultPaymentConfig() PaymentConfig {
	return PaymentConfig{
		MinTopUp:           10000,
		MaxTopUp:           10000000,
		TopUpVariableRate:  "0.007",
		TopUpFixedFee:      500,
		TopUpExpiryMinutes: 60,

		MinPayout: 50000,
		MaxPayout: 5000000,
		BankFeeTiers: map[string]BankFeeTier{
			"BCA": {Threshold: 250000, LowFee: 4000, HighFee: 6000},
			"BNI": {Threshold: 250000, LowFee: 4000, HighFee: 6000},
			"BRI": {Threshold: 250000, LowFee: 4000, HighFee: 6000},
		},
		DefaultFeeTier: BankFeeTier{Threshold: 250000, LowFee: 5000, HighFee: 7500},
	}
}

func loadWebhookProviders() []WebhookProvider {
	var providers []WebhookProvider
	if secret := os.Getenv("GATEWAY_CALLBACK_TOKEN"); secret != "" {
		providers = append(providers, WebhookProvider{
			Name:            "xendit",
			Channel:         WebhookChannelPayment,
			Scheme:          WebhookSchemeSharedSecret,
			SignatureHeader: "X-Callback-Token",
			Secret:          secret,
		})
	}
	if secret := os.Getenv("SOCIAL_WEBHOOK_SECRET"); secret != "" {
		providers = append(providers, WebhookProvider{
			Name:            "social",
			Channel:         WebhookChannelSocial,
			Scheme:          WebhookSchemeHMACSHA256,
			SignatureHeader: "X-Hub-Signature-256",
			Secret:          secret,
		})
	}
	return providers
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s not set", key)
	}
	return strconv.ParseInt(v, 10, 64)
}
