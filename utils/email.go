package utils

import (
	"fmt"
	"strconv"

	"github.com/kerjalink/kerjapay/config"
	"gopkg.in/gomail.v2"
)

// SendEmail sends an email using the configured SMTP relay
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendPayoutSettledEmail notifies a worker that a payout reached a terminal
// state. Best-effort: callers invoke it in a goroutine and only log failures.
func SendPayoutSettledEmail(to, holderName string, netAmount int64, completed bool, reason string) error {
	if completed {
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Your withdrawal of <b>%s</b> has been sent to your bank account.</p>",
			holderName, FormatIDR(netAmount))
		return SendEmail(to, "Your withdrawal is on its way", body)
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your withdrawal of <b>%s</b> could not be completed (%s). The amount has been returned to your wallet.</p>",
		holderName, FormatIDR(netAmount), reason)
	return SendEmail(to, "Your withdrawal failed", body)
}
