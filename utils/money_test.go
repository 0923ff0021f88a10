package utils

import (
	"testing"

	"github.com/kerjalink/kerjapay/config"
)

func TestTopUpFee(t *testing.T) {
	cfg := config.DefaultPaymentConfig()

	cases := []struct {
		amount int64
		want   int64
	}{
		{500000, 4000},  // 3500 variable + 500 fixed
		{100000, 1200},  // 700 + 500
		{10000, 570},    // 70 + 500
		{142857, 1499},  // floor(999.999) = 999, + 500
		{10000000, 70500},
	}
	for _, tc := range cases {
		if got := TopUpFee(cfg, tc.amount); got != tc.want {
			t.Errorf("TopUpFee(%d) want %d got %d", tc.amount, tc.want, got)
		}
	}
}

func TestTopUpFeeMisconfiguredRate(t *testing.T) {
	cfg := config.DefaultPaymentConfig()
	cfg.TopUpVariableRate = "not a number"
	if got := TopUpFee(cfg, 500000); got != cfg.TopUpFixedFee {
		t.Fatalf("misconfigured rate must fall back to fixed fee, got %d", got)
	}
}

func TestPayoutFeeTiers(t *testing.T) {
	cfg := config.DefaultPaymentConfig()

	cases := []struct {
		bank   string
		amount int64
		want   int64
	}{
		{"BCA", 200000, 4000},     // tier-one bank, at or below threshold
		{"BCA", 250000, 4000},     // threshold boundary stays in the low band
		{"BCA", 250001, 6000},     // just above threshold
		{"bni", 100000, 4000},     // bank codes are case-insensitive
		{"MANDIRI", 300000, 7500}, // unlisted bank uses the default tier
		{"MANDIRI", 100000, 5000},
		{"CIMB", 1000000, 7500},
	}
	for _, tc := range cases {
		if got := PayoutFee(cfg, tc.bank, tc.amount); got != tc.want {
			t.Errorf("PayoutFee(%s, %d) want %d got %d", tc.bank, tc.amount, tc.want, got)
		}
	}
}

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{4000, "Rp4.000"},
		{504000, "Rp504.000"},
		{10000000, "Rp10.000.000"},
		{-200000, "-Rp200.000"},
	}
	for _, tc := range cases {
		if got := FormatIDR(tc.amount); got != tc.want {
			t.Errorf("FormatIDR(%d) want %q got %q", tc.amount, tc.want, got)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(4.5); got != "4.5" {
		t.Fatalf("FormatScore(4.5) got %q", got)
	}
	if got := FormatScore(3); got != "3.0" {
		t.Fatalf("FormatScore(3) got %q", got)
	}
}
