package service

import (
	"context"
	"math"
	"testing"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/shopspring/decimal"
)

func TestBalanceInvariant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "ledger@example.com")

	bank, err := svc.CreateAccount(ctx, o.id, AccountInput{Name: "BCA", Type: "bank", OpeningBalance: dec("1000")})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if !bank.Balance.Equal(dec("1000")) || bank.Icon != "building-columns" {
		t.Fatalf("new account = %+v, want balance 1000 and bank icon", bank)
	}

	day := models.NewDate(2026, 10, 1)
	salary := o.post(t, svc, bank.ID, "Salary", "500.50", models.Income, day)
	food := o.post(t, svc, bank.ID, "Food & Drinks", "120.25", models.Expense, day.AddDays(1))
	o.post(t, svc, o.cash, "Shopping", "80", models.Expense, day.AddDays(2))

	if _, err := svc.EditTransaction(ctx, o.id, food.ID, TransactionInput{
		AccountID: o.cash, CategoryID: o.categories["Food & Drinks"], Title: "Dinner",
		Amount: dec("200"), Type: models.Expense, Date: day.AddDays(1),
	}); err != nil {
		t.Fatalf("EditTransaction() error = %v", err)
	}
	if err := svc.DeleteTransaction(ctx, o.id, salary.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}

	if got := balance(t, svc, o.id, bank.ID); !got.Equal(dec("1000")) {
		t.Errorf("bank balance = %s, want 1000", got)
	}
	if got := balance(t, svc, o.id, o.cash); !got.Equal(dec("-280")) {
		t.Errorf("cash balance = %s, want -280", got)
	}
	for _, id := range []int64{bank.ID, o.cash} {
		rec, err := svc.ReconcileAccount(ctx, o.id, id)
		if err != nil {
			t.Fatalf("ReconcileAccount(%d) error = %v", id, err)
		}
		if !rec.Consistent {
			t.Errorf("account %d inconsistent: %+v", id, rec)
		}
	}
}

func TestEditTransaction_SameValuesLeaveBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "idem@example.com")
	txn := o.post(t, svc, o.cash, "Salary", "300", models.Income, models.NewDate(2026, 9, 1))

	in := TransactionInput{
		AccountID: txn.AccountID, CategoryID: txn.CategoryID, Title: txn.Title,
		Amount: txn.Amount, Type: txn.Type, Date: txn.Date,
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.EditTransaction(ctx, o.id, txn.ID, in); err != nil {
			t.Fatalf("EditTransaction() error = %v", err)
		}
	}
	if got := balance(t, svc, o.id, o.cash); !got.Equal(dec("300")) {
		t.Errorf("balance after repeated edits = %s, want 300", got)
	}
}

func TestEditTransaction_ChangesTypeAndAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "move@example.com")
	wallet, _ := svc.CreateAccount(ctx, o.id, AccountInput{Name: "GoPay", Type: models.AccountEWallet})
	txn := o.post(t, svc, o.cash, "Bills", "50", models.Expense, models.NewDate(2026, 9, 1))

	_, err := svc.EditTransaction(ctx, o.id, txn.ID, TransactionInput{
		AccountID: wallet.ID, CategoryID: o.categories["Freelance"], Title: "Gig",
		Amount: dec("70"), Type: models.Income, Date: models.NewDate(2026, 9, 2),
	})
	if err != nil {
		t.Fatalf("EditTransaction() error = %v", err)
	}
	if got := balance(t, svc, o.id, o.cash); !got.IsZero() {
		t.Errorf("original account balance = %s, want 0", got)
	}
	if got := balance(t, svc, o.id, wallet.ID); !got.Equal(dec("70")) {
		t.Errorf("new account balance = %s, want 70", got)
	}
}

func TestEditTransaction_FailureRollsBack(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "rollback@example.com")
	txn := o.post(t, svc, o.cash, "Health", "40", models.Expense, models.NewDate(2026, 9, 1))

	// INCOME posting against an EXPENSE category
	_, err := svc.EditTransaction(ctx, o.id, txn.ID, TransactionInput{
		AccountID: o.cash, CategoryID: o.categories["Health"], Title: "x",
		Amount: dec("40"), Type: models.Income, Date: txn.Date,
	})
	assertKind(t, err, ErrValidation)

	_, err = svc.EditTransaction(ctx, o.id, txn.ID, TransactionInput{
		AccountID: 9999, CategoryID: o.categories["Health"], Title: "x",
		Amount: dec("40"), Type: models.Expense, Date: txn.Date,
	})
	assertKind(t, err, ErrNotFound)

	if got := balance(t, svc, o.id, o.cash); !got.Equal(dec("-40")) {
		t.Errorf("balance after failed edits = %s, want -40", got)
	}
}

func TestPostTransaction_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	o := register(t, svc, "validate@example.com")
	date := models.NewDate(2026, 10, 1)
	base := TransactionInput{
		AccountID: o.cash, CategoryID: o.categories["Salary"], Title: "Pay",
		Amount: dec("10"), Type: models.Income, Date: date,
	}

	tests := []struct {
		name   string
		mutate func(*TransactionInput)
		kind   error
	}{
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, ErrValidation},
		{"negative amount", func(in *TransactionInput) { in.Amount = dec("-5") }, ErrValidation},
		{"missing title", func(in *TransactionInput) { in.Title = "  " }, ErrValidation},
		{"bad type", func(in *TransactionInput) { in.Type = "TRANSFER" }, ErrValidation},
		{"missing date", func(in *TransactionInput) { in.Date = models.Date{} }, ErrValidation},
		{"type mismatch", func(in *TransactionInput) { in.Type = models.Expense }, ErrValidation},
		{"unknown account", func(in *TransactionInput) { in.AccountID = 424242 }, ErrNotFound},
		{"unknown category", func(in *TransactionInput) { in.CategoryID = 424242 }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := svc.PostTransaction(context.Background(), o.id, in)
			assertKind(t, err, tt.kind)
		})
	}
	if got := balance(t, svc, o.id, o.cash); !got.IsZero() {
		t.Errorf("balance after rejected posts = %s, want 0", got)
	}
}

func TestListTransactions_Pagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "pages@example.com")
	for i := 0; i < 12; i++ {
		o.post(t, svc, o.cash, "Salary", "1", models.Income, models.NewDate(2026, 9, 1+i))
	}
	o.post(t, svc, o.cash, "Salary", "1", models.Income, models.NewDate(2026, 10, 3))

	page, err := svc.ListTransactions(ctx, o.id, models.TransactionFilter{Page: 2})
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	want := models.Pagination{CurrentPage: 2, TotalPages: 2, TotalItems: 13}
	if page.Pagination != want || len(page.Data) != 3 {
		t.Errorf("pagination = %+v with %d rows, want %+v with 3 rows", page.Pagination, len(page.Data), want)
	}

	first, _ := svc.ListTransactions(ctx, o.id, models.TransactionFilter{Limit: 500})
	if len(first.Data) != 13 || !first.Data[0].Date.Equal(models.NewDate(2026, 10, 3)) {
		t.Errorf("expected newest first with limit capped above total, got %d rows", len(first.Data))
	}

	sept, err := svc.ListTransactions(ctx, o.id, models.TransactionFilter{Month: 9, Year: 2026})
	if err != nil {
		t.Fatalf("ListTransactions(month) error = %v", err)
	}
	if sept.Pagination.TotalItems != 12 {
		t.Errorf("September total = %d, want 12", sept.Pagination.TotalItems)
	}

	_, err = svc.ListTransactions(ctx, o.id, models.TransactionFilter{Month: 9})
	assertKind(t, err, ErrValidation)

	_, err = svc.ListTransactions(ctx, o.id, models.TransactionFilter{Page: math.MaxInt64 / 5, Limit: 10})
	assertKind(t, err, ErrValidation)

	last, err := svc.ListTransactions(ctx, o.id, models.TransactionFilter{Page: utils.MaxPage, Limit: 100})
	if err != nil || len(last.Data) != 0 || last.Pagination.TotalItems != 13 {
		t.Errorf("ListTransactions(last allowed page) = %+v, %v; want empty page", last, err)
	}
}

func TestArchivedCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "archive@example.com")
	txn := o.post(t, svc, o.cash, "Entertainment", "15", models.Expense, models.NewDate(2026, 10, 2))

	if _, err := svc.CreateBudget(ctx, o.id, BudgetInput{CategoryID: o.categories["Shopping"], AmountLimit: dec("100")}); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}
	assertKind(t, svc.ArchiveCategory(ctx, o.id, o.categories["Shopping"]), ErrReferenced)

	if err := svc.ArchiveCategory(ctx, o.id, o.categories["Entertainment"]); err != nil {
		t.Fatalf("ArchiveCategory() error = %v", err)
	}
	categories, _ := svc.ListCategories(ctx, o.id)
	for _, c := range categories {
		if c.ID == o.categories["Entertainment"] {
			t.Errorf("archived category still listed")
		}
	}

	// existing rows keep the archived category, new rows may not use it
	if _, err := svc.EditTransaction(ctx, o.id, txn.ID, TransactionInput{
		AccountID: o.cash, CategoryID: txn.CategoryID, Title: "Movie", Amount: dec("20"),
		Type: models.Expense, Date: txn.Date,
	}); err != nil {
		t.Errorf("EditTransaction() keeping archived category error = %v", err)
	}
	_, err := svc.PostTransaction(ctx, o.id, TransactionInput{
		AccountID: o.cash, CategoryID: o.categories["Entertainment"], Title: "Concert",
		Amount: dec("5"), Type: models.Expense, Date: txn.Date,
	})
	assertKind(t, err, ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "delete@example.com")
	spare, _ := svc.CreateAccount(ctx, o.id, AccountInput{Name: "Spare", Type: models.AccountBank})
	o.post(t, svc, o.cash, "Salary", "10", models.Income, models.NewDate(2026, 10, 1))

	assertKind(t, svc.DeleteAccount(ctx, o.id, o.cash), ErrReferenced)
	if err := svc.DeleteAccount(ctx, o.id, spare.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	assertKind(t, svc.DeleteAccount(ctx, o.id, spare.ID), ErrNotFound)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, svc, "alice@example.com")
	bob := register(t, svc, "bob@example.com")

	txn := alice.post(t, svc, alice.cash, "Salary", "100", models.Income, models.NewDate(2026, 10, 1))
	goal, _ := svc.CreateGoal(ctx, alice.id, GoalInput{Name: "Trip", TargetAmount: dec("1000")})
	debt, _ := svc.CreateDebt(ctx, alice.id, DebtInput{Name: "Loan", Type: models.DebtPayable, TotalAmount: dec("50")})

	_, err := svc.GetAccount(ctx, bob.id, alice.cash)
	assertKind(t, err, ErrNotFound)
	_, err = svc.EditTransaction(ctx, bob.id, txn.ID, TransactionInput{
		AccountID: bob.cash, CategoryID: bob.categories["Salary"], Title: "steal",
		Amount: dec("1"), Type: models.Income, Date: txn.Date,
	})
	assertKind(t, err, ErrNotFound)
	assertKind(t, svc.DeleteTransaction(ctx, bob.id, txn.ID), ErrNotFound)
	_, err = svc.PostTransaction(ctx, bob.id, TransactionInput{
		AccountID: alice.cash, CategoryID: bob.categories["Salary"], Title: "x",
		Amount: dec("1"), Type: models.Income, Date: txn.Date,
	})
	assertKind(t, err, ErrNotFound)
	_, err = svc.Deposit(ctx, bob.id, goal.ID, dec("1"))
	assertKind(t, err, ErrNotFound)
	_, err = svc.PayDebt(ctx, bob.id, debt.ID, dec("1"))
	assertKind(t, err, ErrNotFound)

	page, _ := svc.ListTransactions(ctx, bob.id, models.TransactionFilter{})
	if page.Pagination.TotalItems != 0 {
		t.Errorf("bob sees %d transactions, want 0", page.Pagination.TotalItems)
	}
	if got := balance(t, svc, alice.id, alice.cash); !got.Equal(dec("100")) {
		t.Errorf("alice balance = %s, want 100", got)
	}
}
