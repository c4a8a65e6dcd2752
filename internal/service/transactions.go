package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/shopspring/decimal"
)

// TransactionInput is the body of transaction post and edit calls
type TransactionInput struct {
	AccountID  int64                  `json:"account_id"`
	CategoryID int64                  `json:"category_id"`
	Title      string                 `json:"title"`
	Amount     decimal.Decimal        `json:"amount"`
	Type       models.TransactionType `json:"type"`
	Date       models.Date            `json:"transaction_date"`
}

func (in *TransactionInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = models.TransactionType(strings.ToUpper(string(in.Type)))
	switch {
	case in.AccountID <= 0:
		return validationf("account_id is required")
	case in.CategoryID <= 0:
		return validationf("category_id is required")
	case in.Title == "":
		return validationf("title is required")
	case !in.Type.Valid():
		return validationf("type must be INCOME or EXPENSE")
	case in.Date.IsZero():
		return validationf("transaction_date is required")
	}
	return positiveAmount("amount", in.Amount)
}

// checkCategory verifies the category belongs to the owner and matches the posting type.
// Archived categories are only accepted when the transaction already used them.
func checkCategory(ctx context.Context, st store.Store, ownerID int64, in TransactionInput, current int64) error {
	category, err := st.GetCategory(ctx, ownerID, in.CategoryID)
	if err != nil {
		return err
	}
	if category.Archived() && category.ID != current {
		return validationf("category %q is archived", category.Name)
	}
	if category.Type != in.Type {
		return validationf("category %q is for %s transactions", category.Name, category.Type)
	}
	return nil
}

// PostTransaction records a transaction and moves its account balance in one unit
func (s *Service) PostTransaction(ctx context.Context, ownerID int64, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:     ownerID,
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Amount:     in.Amount,
		Type:       in.Type,
		Date:       in.Date,
	}
	err := s.store.WithTx(ctx, func(st store.Store) error {
		return postTransaction(ctx, st, txn)
	})
	if err != nil {
		return nil, s.fail(ctx, "post", "transaction", ownerID, mapMissing(err, "account or category"))
	}

	s.invalidateForecast(ctx, ownerID)
	s.log.WithField("owner", ownerID).Infof("Transaction %d posted: %s %s", txn.ID, txn.Type, txn.Amount)
	return txn, nil
}

// postTransaction inserts txn and applies its posting. It must run inside WithTx.
func postTransaction(ctx context.Context, st store.Store, txn *models.Transaction) error {
	if _, err := st.LockAccount(ctx, txn.UserID, txn.AccountID); err != nil {
		return err
	}
	if err := checkCategory(ctx, st, txn.UserID, TransactionInput{CategoryID: txn.CategoryID, Type: txn.Type}, 0); err != nil {
		return err
	}
	if err := st.CreateTransaction(ctx, txn); err != nil {
		return err
	}
	_, err := st.AdjustBalance(ctx, txn.UserID, txn.AccountID, txn.SignedAmount())
	return err
}

// EditTransaction reverses the original posting and applies the edited one in one unit
func (s *Service) EditTransaction(ctx context.Context, ownerID, id int64, in TransactionInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := s.store.WithTx(ctx, func(st store.Store) error {
		old, err := st.LockTransaction(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := lockAccounts(ctx, st, ownerID, old.AccountID, in.AccountID); err != nil {
			return mapMissing(err, "account")
		}
		if err := checkCategory(ctx, st, ownerID, in, old.CategoryID); err != nil {
			return mapMissing(err, "category")
		}

		// Reverse against the original account, amount and type.
		if _, err := st.AdjustBalance(ctx, ownerID, old.AccountID, old.SignedAmount().Neg()); err != nil {
			return err
		}

		updated := *old
		updated.AccountID = in.AccountID
		updated.CategoryID = in.CategoryID
		updated.Title = in.Title
		updated.Amount = in.Amount
		updated.Type = in.Type
		updated.Date = in.Date
		if _, err := st.AdjustBalance(ctx, ownerID, updated.AccountID, updated.SignedAmount()); err != nil {
			return err
		}
		if err := st.UpdateTransaction(ctx, &updated); err != nil {
			return err
		}
		txn = &updated
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "edit", "transaction", ownerID, err)
	}

	s.invalidateForecast(ctx, ownerID)
	s.log.WithField("owner", ownerID).Infof("Transaction %d edited", id)
	return txn, nil
}

// DeleteTransaction reverses the posting and removes the row in one unit
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id int64) error {
	err := s.store.WithTx(ctx, func(st store.Store) error {
		old, err := st.LockTransaction(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if _, err := st.LockAccount(ctx, ownerID, old.AccountID); err != nil {
			return err
		}
		if _, err := st.AdjustBalance(ctx, ownerID, old.AccountID, old.SignedAmount().Neg()); err != nil {
			return err
		}
		return st.DeleteTransaction(ctx, ownerID, id)
	})
	if err != nil {
		return s.fail(ctx, "delete", "transaction", ownerID, err)
	}

	s.invalidateForecast(ctx, ownerID)
	s.log.WithField("owner", ownerID).Infof("Transaction %d deleted", id)
	return nil
}

// ListTransactions returns one page of the caller's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, ownerID int64, filter models.TransactionFilter) (*models.Page[models.TransactionView], error) {
	if (filter.Month == 0) != (filter.Year == 0) {
		return nil, validationf("month and year must be given together")
	}
	if filter.Month < 0 || filter.Month > 12 {
		return nil, validationf("month must be between 1 and 12")
	}
	if filter.Year < 0 {
		return nil, validationf("year is invalid")
	}
	if filter.Page > utils.MaxPage {
		return nil, validationf("page must not exceed %d", utils.MaxPage)
	}
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)

	rows, total, err := s.store.ListTransactions(ctx, ownerID, filter)
	if err != nil {
		return nil, s.fail(ctx, "list", "transaction", ownerID, err)
	}
	if rows == nil {
		rows = []models.TransactionView{}
	}
	return &models.Page[models.TransactionView]{
		Data: rows,
		Pagination: models.Pagination{
			CurrentPage: filter.Page,
			TotalPages:  utils.TotalPages(total, filter.Limit),
			TotalItems:  total,
		},
	}, nil
}

// lockAccounts locks both accounts in ascending id order
func lockAccounts(ctx context.Context, st store.Store, ownerID int64, a, b int64) error {
	if a > b {
		a, b = b, a
	}
	if _, err := st.LockAccount(ctx, ownerID, a); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	_, err := st.LockAccount(ctx, ownerID, b)
	return err
}

// mapMissing names the referenced entity when a lookup inside a mutation fails
func mapMissing(err error, entity string) error {
	if isNotFound(err) {
		return notFound(entity)
	}
	return err
}
