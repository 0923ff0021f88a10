package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kerjalink/kerjapay/config"
)

var (
	bankCodeRegex      = regexp.MustCompile(`^[A-Z0-9_]{2,20}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{6,20}$`)
)

// ValidateTopUpAmount checks a top-up amount against the configured bounds.
// The returned error names the bound that was violated.
func ValidateTopUpAmount(cfg config.PaymentConfig, amount int64) error {
	if amount < cfg.MinTopUp {
		return NewValidationError(
			fmt.Sprintf("Top-up amount must be at least %s", FormatIDR(cfg.MinTopUp)), nil)
	}
	if amount > cfg.MaxTopUp {
		return NewValidationError(
			fmt.Sprintf("Top-up amount must not exceed %s", FormatIDR(cfg.MaxTopUp)), nil)
	}
	return nil
}

// ValidatePayoutAmount checks a payout amount against the configured bounds
func ValidatePayoutAmount(cfg config.PaymentConfig, amount int64) error {
	if amount < cfg.MinPayout {
		return NewValidationError(
			fmt.Sprintf("Payout amount must be at least %s", FormatIDR(cfg.MinPayout)), nil)
	}
	if amount > cfg.MaxPayout {
		return NewValidationError(
			fmt.Sprintf("Payout amount must not exceed %s", FormatIDR(cfg.MaxPayout)), nil)
	}
	return nil
}

// ValidateBankDetails checks the shape of disbursement destination details
func ValidateBankDetails(bankCode, accountNumber, holderName string) error {
	if !bankCodeRegex.MatchString(strings.ToUpper(bankCode)) {
		return NewValidationError("Invalid bank code", nil)
	}
	if !accountNumberRegex.MatchString(accountNumber) {
		return NewValidationError("Invalid account number", nil)
	}
	if strings.TrimSpace(holderName) == "" {
		return NewValidationError("Account holder name is required", nil)
	}
	return nil
}
