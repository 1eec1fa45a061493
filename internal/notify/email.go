package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/saed34123/investa/internal/models"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Configured reports whether the sender has enough config to send anything.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// EmailSender sends ledger event mail over plain SMTP.
type EmailSender struct {
	cfg SMTPConfig
}

func NewEmailSender(cfg SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// SendPaymentReceipt mails the user after their deposit is confirmed.
func (s *EmailSender) SendPaymentReceipt(user models.User, payment models.Payment) error {
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{user.Email}
	e.Subject = "Deposit confirmed"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your deposit of %s via %s has been confirmed.\n"+
			"Payment reference: %s\n"+
			"Current balance: %s\n"+
			"\nBest regards,\nInvesta",
		user.Username,
		payment.Amount.StringFixed(2), payment.Method,
		payment.ExternalID,
		user.Balance.StringFixed(2),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", user.Email, err)
	}

	return nil
}
