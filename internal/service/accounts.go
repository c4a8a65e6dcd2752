package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/shopspring/decimal"
)

// AccountInput is the body of account create and update calls
type AccountInput struct {
	Name           string             `json:"name"`
	Type           models.AccountType `json:"type"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
}

func (in *AccountInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = models.AccountType(strings.ToUpper(string(in.Type)))
	if in.Name == "" {
		return validationf("name is required")
	}
	if !in.Type.Valid() {
		return validationf("type must be one of BANK, E-WALLET, CASH")
	}
	return checkAmount("opening_balance", in.OpeningBalance)
}

// CreateAccount creates an account whose balance starts at the opening balance
func (s *Service) CreateAccount(ctx context.Context, ownerID int64, in AccountInput) (*models.Account, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:         ownerID,
		Name:           in.Name,
		Type:           in.Type,
		OpeningBalance: in.OpeningBalance,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, s.fail(ctx, "create", "account", ownerID, err)
	}
	account.Icon = account.Type.Icon()

	s.log.Infof("Account created for user %d: %s", ownerID, account.Name)
	return account, nil
}

// ListAccounts returns the caller's accounts with display icons
func (s *Service) ListAccounts(ctx context.Context, ownerID int64) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "account", ownerID, err)
	}
	for i := range accounts {
		accounts[i].Icon = accounts[i].Type.Icon()
	}
	return accounts, nil
}

// GetAccount returns one account of the caller
func (s *Service) GetAccount(ctx context.Context, ownerID, id int64) (*models.Account, error) {
	account, err := s.store.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "account", ownerID, err)
	}
	account.Icon = account.Type.Icon()
	return account, nil
}

// UpdateAccount renames or retypes an account. The balance is not client-writable.
func (s *Service) UpdateAccount(ctx context.Context, ownerID, id int64, in AccountInput) (*models.Account, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "account", ownerID, err)
	}
	account.Name = in.Name
	account.Type = in.Type
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, s.fail(ctx, "update", "account", ownerID, err)
	}
	account.Icon = account.Type.Icon()
	return account, nil
}

// DeleteAccount removes an account that no transaction references
func (s *Service) DeleteAccount(ctx context.Context, ownerID, id int64) error {
	err := s.store.WithTx(ctx, func(st store.Store) error {
		if _, err := st.LockAccount(ctx, ownerID, id); err != nil {
			return err
		}
		n, err := st.CountAccountTransactions(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return referencedf("account has %d transactions", n)
		}
		return st.DeleteAccount(ctx, ownerID, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return referencedf("account is referenced by transactions")
		}
		return s.fail(ctx, "delete", "account", ownerID, err)
	}

	s.log.WithField("owner", ownerID).Infof("Account %d deleted", id)
	return nil
}

// ReconcileAccount compares the stored balance with opening balance plus the ledger
func (s *Service) ReconcileAccount(ctx context.Context, ownerID, id int64) (*models.AccountReconciliation, error) {
	var rec *models.AccountReconciliation
	err := s.store.WithTx(ctx, func(st store.Store) error {
		account, err := st.GetAccount(ctx, ownerID, id)
		if err != nil {
			return err
		}
		sum, err := st.SumAccountPostings(ctx, ownerID, id)
		if err != nil {
			return err
		}
		expected := account.OpeningBalance.Add(sum)
		rec = &models.AccountReconciliation{
			AccountID:      account.ID,
			OpeningBalance: account.OpeningBalance,
			LedgerSum:      sum,
			Expected:       expected,
			Balance:        account.Balance,
			Consistent:     expected.Equal(account.Balance),
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "reconcile", "account", ownerID, err)
	}
	if !rec.Consistent {
		s.log.WithField("owner", ownerID).Warnf("Account %d balance %s differs from ledger %s", id, rec.Balance, rec.Expected)
	}
	return rec, nil
}
