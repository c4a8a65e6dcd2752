package email

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestSender() *Sender {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSender(&config.Config{SenderEmail: "no-reply@finance.local", Currency: "IDR"}, logger)
}

func TestBillReminder(t *testing.T) {
	s := newTestSender()
	bill := models.ScheduledBill{Title: "Internet", Amount: decimal.RequireFromString("75.5"), DueDate: models.NewDate(2026, 10, 20)}

	upcoming := s.BillReminder("ann@example.com", "Ann", bill, false)
	if upcoming.Subject != "Upcoming bill: Internet" || upcoming.To[0] != "ann@example.com" {
		t.Errorf("upcoming reminder = %q to %v", upcoming.Subject, upcoming.To)
	}
	if body := string(upcoming.Text); !strings.Contains(body, "75.50 IDR is due on 2026-10-20") {
		t.Errorf("upcoming body = %q", body)
	}

	overdue := s.BillReminder("ann@example.com", "Ann", bill, true)
	if !strings.HasPrefix(overdue.Subject, "Overdue") || !strings.Contains(string(overdue.Text), "was due on 2026-10-20") {
		t.Errorf("overdue reminder = %q %q", overdue.Subject, overdue.Text)
	}
}

func TestSendBillReminder(t *testing.T) {
	s := newTestSender()
	var sent []*email.Email
	s.send = func(e *email.Email) error {
		sent = append(sent, e)
		return nil
	}
	bill := models.ScheduledBill{Title: "Rent", Amount: decimal.NewFromInt(500), DueDate: models.NewDate(2026, 11, 1)}
	if err := s.SendBillReminder("bob@example.com", "Bob", bill, false); err != nil {
		t.Fatalf("SendBillReminder() error = %v", err)
	}
	if len(sent) != 1 || sent[0].From != "no-reply@finance.local" {
		t.Errorf("sent = %+v", sent)
	}

	s.send = func(*email.Email) error { return errors.New("smtp down") }
	if err := s.SendBillReminder("bob@example.com", "Bob", bill, false); err == nil {
		t.Error("SendBillReminder() error = nil on smtp failure")
	}
}
