package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kerjalink/kerjapay/config"
	"github.com/shopspring/decimal"
)

// TopUpFee computes the gateway fee for a top-up:
// floor(amount x variable rate) + fixed fee.
func TopUpFee(cfg config.PaymentConfig, amount int64) int64 {
	rate, err := decimal.NewFromString(cfg.TopUpVariableRate)
	if err != nil {
		// Misconfigured rate; charge only the fixed component rather
		// than blocking top-ups.
		LogError("Invalid top-up variable rate %q: %v", cfg.TopUpVariableRate, err)
		return cfg.TopUpFixedFee
	}
	variable := decimal.NewFromInt(amount).Mul(rate).Floor().IntPart()
	return variable + cfg.TopUpFixedFee
}

// PayoutFee computes the disbursement fee from the per-bank tier table.
// Banks without an explicit tier use the default tier.
func PayoutFee(cfg config.PaymentConfig, bankCode string, amount int64) int64 {
	tier, ok := cfg.BankFeeTiers[strings.ToUpper(bankCode)]
	if !ok {
		tier = cfg.DefaultFeeTier
	}
	if amount <= tier.Threshold {
		return tier.LowFee
	}
	return tier.HighFee
}

// FormatIDR renders an IDR amount with thousand separators, e.g. Rp504.000
func FormatIDR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp" + strings.Join(parts, ".")
	if neg {
		return "-" + out
	}
	return out
}

// FormatScore renders a reliability score with one decimal place
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}
