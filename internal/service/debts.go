package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/shopspring/decimal"
)

// DebtInput is the body of debt create calls
type DebtInput struct {
	Name        string          `json:"name"`
	Type        models.DebtType `json:"type"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DueDate     *models.Date    `json:"due_date"`
	Description string          `json:"description"`
}

func (in *DebtInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = models.DebtType(strings.ToUpper(string(in.Type)))
	in.Description = strings.TrimSpace(in.Description)
	if in.DueDate != nil && in.DueDate.IsZero() {
		in.DueDate = nil
	}
	switch {
	case in.Name == "":
		return validationf("name is required")
	case !in.Type.Valid():
		return validationf("type must be PAYABLE or RECEIVABLE")
	}
	return positiveAmount("total_amount", in.TotalAmount)
}

// PayResult is the debt after a payment together with the recorded payment
type PayResult struct {
	Debt    *models.Debt        `json:"debt"`
	Payment *models.DebtPayment `json:"payment"`
}

// CreateDebt records a payable or receivable with nothing paid yet
func (s *Service) CreateDebt(ctx context.Context, ownerID int64, in DebtInput) (*models.Debt, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	debt := &models.Debt{
		UserID:          ownerID,
		Name:            in.Name,
		Type:            in.Type,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: in.TotalAmount,
		DueDate:         in.DueDate,
		Description:     in.Description,
		Status:          models.DebtUnpaid,
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return nil, s.fail(ctx, "create", "debt", ownerID, err)
	}
	return debt, nil
}

// ListDebts returns the caller's debts
func (s *Service) ListDebts(ctx context.Context, ownerID int64) ([]models.Debt, error) {
	debts, err := s.store.ListDebts(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "debt", ownerID, err)
	}
	return debts, nil
}

// PayDebt applies a payment, clamped to what is outstanding. The debt is PAID once
// nothing remains, and a PAID debt accepts no further payments.
func (s *Service) PayDebt(ctx context.Context, ownerID, id int64, amount decimal.Decimal) (*PayResult, error) {
	if err := positiveAmount("pay_amount", amount); err != nil {
		return nil, err
	}

	var result PayResult
	err := s.store.WithTx(ctx, func(st store.Store) error {
		debt, err := st.LockDebt(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if debt.Status == models.DebtPaid || !debt.RemainingAmount.IsPositive() {
			return conflictf("debt is already paid")
		}

		applied := decimal.Min(amount, debt.RemainingAmount)
		debt.RemainingAmount = debt.RemainingAmount.Sub(applied)
		debt.Status = models.DebtUnpaid
		if debt.RemainingAmount.IsZero() {
			debt.Status = models.DebtPaid
		}
		if err := st.UpdateDebtBalance(ctx, debt); err != nil {
			return err
		}

		payment := &models.DebtPayment{
			DebtID:  debt.ID,
			UserID:  ownerID,
			Amount:  amount,
			Applied: applied,
		}
		if err := st.CreateDebtPayment(ctx, payment); err != nil {
			return err
		}
		result = PayResult{Debt: debt, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "pay", "debt", ownerID, err)
	}

	s.log.WithField("owner", ownerID).Infof("Debt %d paid %s, remaining %s", id, result.Payment.Applied, result.Debt.RemainingAmount)
	return &result, nil
}

// DebtPayments lists the payments recorded against a debt
func (s *Service) DebtPayments(ctx context.Context, ownerID, id int64) ([]models.DebtPayment, error) {
	if _, err := s.store.GetDebt(ctx, ownerID, id); err != nil {
		return nil, s.fail(ctx, "get", "debt", ownerID, err)
	}
	payments, err := s.store.ListDebtPayments(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "list", "debt payment", ownerID, err)
	}
	return payments, nil
}

// DeleteDebt removes a debt and its payment history
func (s *Service) DeleteDebt(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteDebt(ctx, ownerID, id); err != nil {
		return s.fail(ctx, "delete", "debt", ownerID, err)
	}
	return nil
}
