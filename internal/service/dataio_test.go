package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/beevik/etree"
	"github.com/xuri/excelize/v2"
)

func TestCSVRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	src := register(t, svc, "src@example.com")
	bank, _ := svc.CreateAccount(ctx, src.id, AccountInput{Name: "BCA", Type: models.AccountBank})
	src.post(t, svc, src.cash, "Salary", "1500.75", models.Income, models.NewDate(2026, 8, 1))
	src.post(t, svc, bank.ID, "Food & Drinks", "12.5", models.Expense, models.NewDate(2026, 8, 2))
	src.post(t, svc, src.cash, "Health", "99", models.Expense, models.NewDate(2026, 8, 2))

	var exported bytes.Buffer
	if err := svc.ExportCSV(ctx, src.id, &exported); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if !strings.HasPrefix(exported.String(), "Date,Title,Amount,Type,Category,Account\n") {
		t.Fatalf("unexpected header: %q", exported.String())
	}

	dst := register(t, svc, "dst@example.com")
	res, err := svc.ImportCSV(ctx, dst.id, bytes.NewReader(exported.Bytes()))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if res.Imported != 3 || len(res.CreatedAccounts) != 1 || res.CreatedAccounts[0] != "BCA" || len(res.CreatedCategories) != 0 {
		t.Errorf("import result = %+v", res)
	}

	var reexported bytes.Buffer
	if err := svc.ExportCSV(ctx, dst.id, &reexported); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if reexported.String() != exported.String() {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", exported.String(), reexported.String())
	}
	if got := balance(t, svc, dst.id, dst.cash); !got.Equal(dec("1401.75")) {
		t.Errorf("imported cash balance = %s, want 1401.75", got)
	}
}

func TestCSVExport_EscapesFormulas(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	src := register(t, svc, "formula@example.com")
	wallet, err := svc.CreateAccount(ctx, src.id, AccountInput{Name: "+Wallet", Type: models.AccountEWallet})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	titles := []string{`=HYPERLINK("http://evil")`, "-refund", "@SUM(A1)", "+1", "'=quoted", "Plain"}
	for i, title := range titles {
		_, err := svc.PostTransaction(ctx, src.id, TransactionInput{
			AccountID: wallet.ID, CategoryID: src.categories["Salary"], Title: title,
			Amount: dec("1"), Type: models.Income, Date: models.NewDate(2026, 10, i+1),
		})
		if err != nil {
			t.Fatalf("PostTransaction(%q) error = %v", title, err)
		}
	}

	var exported bytes.Buffer
	if err := svc.ExportCSV(ctx, src.id, &exported); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(exported.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV unreadable: %v", err)
	}
	want := []string{`'=HYPERLINK("http://evil")`, "'-refund", "'@SUM(A1)", "'+1", "''=quoted", "Plain"}
	for i, w := range want {
		row := records[i+1]
		if row[1] != w || row[5] != "'+Wallet" {
			t.Errorf("row %d title = %q account = %q, want %q and '+Wallet", i+1, row[1], row[5], w)
		}
	}

	dst := register(t, svc, "formula-dst@example.com")
	if _, err := svc.ImportCSV(ctx, dst.id, bytes.NewReader(exported.Bytes())); err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	page, _ := svc.ListTransactions(ctx, dst.id, models.TransactionFilter{Limit: 10})
	got := map[string]bool{}
	for _, txn := range page.Data {
		got[txn.Title] = true
		if txn.AccountName != "+Wallet" {
			t.Errorf("imported account = %q, want +Wallet", txn.AccountName)
		}
	}
	for _, title := range titles {
		if !got[title] {
			t.Errorf("title %q lost in round trip, got %v", title, got)
		}
	}
	var reexported bytes.Buffer
	if err := svc.ExportCSV(ctx, dst.id, &reexported); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if reexported.String() != exported.String() {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", exported.String(), reexported.String())
	}
}

func TestImportCSV_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "import@example.com")

	body := "type,amount,title,date\n" +
		"EXPENSE,20,Parking,10/05/2026\n" +
		"\n" +
		"income,5,Refund,2026-10-06\n"
	res, err := svc.ImportCSV(ctx, o.id, strings.NewReader(body))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if res.Imported != 2 || len(res.CreatedAccounts) != 0 {
		t.Errorf("import result = %+v", res)
	}
	if len(res.CreatedCategories) != 2 || res.CreatedCategories[0] != defaultImportCategory {
		t.Errorf("created categories = %v, want General for each type", res.CreatedCategories)
	}
	if got := balance(t, svc, o.id, o.cash); !got.Equal(dec("-15")) {
		t.Errorf("cash balance = %s, want -15", got)
	}
}

func TestImportCSV_InvalidRowAbortsAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "abort@example.com")

	body := "Date,Title,Amount,Type,Category,Account\n" +
		"2026-10-01,Coffee,3,EXPENSE,Coffee,Wallet\n" +
		"2026-10-02,Broken,-3,EXPENSE,Food & Drinks,Cash\n"
	_, err := svc.ImportCSV(ctx, o.id, strings.NewReader(body))
	assertKind(t, err, ErrValidation)
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q does not name line 3", err)
	}

	accounts, _ := svc.ListAccounts(ctx, o.id)
	if len(accounts) != 1 {
		t.Errorf("accounts after aborted import = %d, want 1", len(accounts))
	}
	page, _ := svc.ListTransactions(ctx, o.id, models.TransactionFilter{})
	if page.Pagination.TotalItems != 0 {
		t.Errorf("transactions after aborted import = %d, want 0", page.Pagination.TotalItems)
	}

	_, err = svc.ImportCSV(ctx, o.id, strings.NewReader("Foo,Bar\n1,2\n"))
	assertKind(t, err, ErrValidation)
	_, err = svc.ImportCSV(ctx, o.id, strings.NewReader(""))
	assertKind(t, err, ErrValidation)
}

func TestExportXLSX(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "xlsx@example.com")
	o.post(t, svc, o.cash, "Salary", "10", models.Income, models.NewDate(2026, 10, 1))

	var buf bytes.Buffer
	if err := svc.ExportXLSX(ctx, o.id, &buf); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "Date" || rows[1][1] != "Salary 10" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExportOFX(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	o := register(t, svc, "ofx@example.com")
	o.post(t, svc, o.cash, "Salary", "10", models.Income, models.NewDate(2026, 10, 1))
	o.post(t, svc, o.cash, "Bills", "4", models.Expense, models.NewDate(2026, 10, 2))

	var buf bytes.Buffer
	if err := svc.ExportOFX(ctx, o.id, &buf); err != nil {
		t.Fatalf("ExportOFX() error = %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("exported OFX is not XML: %v", err)
	}
	amounts := doc.FindElements("//STMTTRN/TRNAMT")
	if len(amounts) != 2 || amounts[0].Text() != "10.00" || amounts[1].Text() != "-4.00" {
		t.Errorf("unexpected TRNAMT elements in %s", buf.String())
	}
	if bal := doc.FindElement("//LEDGERBAL/BALAMT"); bal == nil || bal.Text() != "6.00" {
		t.Errorf("ledger balance missing or wrong")
	}
}
