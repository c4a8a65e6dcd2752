package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// BillReminder builds the reminder message for a scheduled bill
func (s *Sender) BillReminder(to, name string, bill models.ScheduledBill, overdue bool) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if overdue {
		e.Subject = fmt.Sprintf("Overdue bill: %s", bill.Title)
	} else {
		e.Subject = fmt.Sprintf("Upcoming bill: %s", bill.Title)
	}

	body := fmt.Sprintf("Dear %s,\n\n", name)
	if overdue {
		body += fmt.Sprintf(
			"Your bill %q of %s %s was due on %s and is not marked as paid yet.\n",
			bill.Title, bill.Amount.StringFixed(2), s.cfg.Currency, bill.DueDate,
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your bill %q of %s %s is due on %s.\n",
			bill.Title, bill.Amount.StringFixed(2), s.cfg.Currency, bill.DueDate,
		)
	}
	body += "Mark it as paid in the app once it is settled.\n\nBest regards,\nFinance Service"
	e.Text = []byte(body)
	return e
}

// SendBillReminder mails the owner about a pending or overdue bill
func (s *Sender) SendBillReminder(to, name string, bill models.ScheduledBill, overdue bool) error {
	e := s.BillReminder(to, name, bill, overdue)
	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send bill reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
