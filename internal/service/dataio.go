package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	defaultImportCategory = "General"
	importDateLayoutUS    = "01/02/2006"
	exportSheet           = "Transactions"
)

// CSVHeader is the column layout of exported and imported transaction files
var CSVHeader = []string{"Date", "Title", "Amount", "Type", "Category", "Account"}

// exportRows loads every transaction of the owner ordered by date then id
func (s *Service) exportRows(ctx context.Context, ownerID int64) ([]models.TransactionView, error) {
	rows, err := s.store.ListTransactionsBetween(ctx, ownerID, models.Date{}, models.Date{})
	if err != nil {
		return nil, s.fail(ctx, "export", "transaction", ownerID, err)
	}
	return rows, nil
}

// Spreadsheet apps evaluate cells starting with these as formulas. A leading
// quote is escaped as well so unescapeCell stays exact.
const escapedPrefixes = "=+-@'"

// escapeCell quotes a text cell that a spreadsheet would run as a formula
func escapeCell(s string) string {
	if s != "" && strings.IndexByte(escapedPrefixes, s[0]) >= 0 {
		return "'" + s
	}
	return s
}

// unescapeCell reverses escapeCell
func unescapeCell(s string) string {
	if len(s) > 1 && s[0] == '\'' && strings.IndexByte(escapedPrefixes, s[1]) >= 0 {
		return s[1:]
	}
	return s
}

func csvRecord(t models.TransactionView) []string {
	return []string{
		t.Date.String(), escapeCell(t.Title), t.Amount.String(), string(t.Type),
		escapeCell(t.CategoryName), escapeCell(t.AccountName),
	}
}

// ExportCSV writes all transactions of the owner as CSV
func (s *Service) ExportCSV(ctx context.Context, ownerID int64, w io.Writer) error {
	rows, err := s.exportRows(ctx, ownerID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, t := range rows {
		if err := writer.Write(csvRecord(t)); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	s.log.WithField("owner", ownerID).Infof("Exported %d transactions as CSV", len(rows))
	return nil
}

// ExportXLSX writes all transactions of the owner as a spreadsheet
func (s *Service) ExportXLSX(ctx context.Context, ownerID int64, w io.Writer) error {
	rows, err := s.exportRows(ctx, ownerID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	for i, h := range CSVHeader {
		f.SetCellValue(exportSheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(exportSheet, "A1", fmt.Sprintf("%c1", 'A'+len(CSVHeader)-1), headerStyle)
	}

	for idx, t := range rows {
		row := idx + 2
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), t.Date.String())
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), t.Title)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), t.Amount.InexactFloat64())
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), string(t.Type))
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), t.CategoryName)
		f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), t.AccountName)
	}

	f.SetColWidth(exportSheet, "A", "A", 12)
	f.SetColWidth(exportSheet, "B", "B", 30)
	f.SetColWidth(exportSheet, "C", "C", 15)
	f.SetColWidth(exportSheet, "D", "D", 10)
	f.SetColWidth(exportSheet, "E", "F", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}

	s.log.WithField("owner", ownerID).Infof("Exported %d transactions as XLSX", len(rows))
	return nil
}

// ExportOFX writes an OFX 2 bank statement with one statement per account
func (s *Service) ExportOFX(ctx context.Context, ownerID int64, w io.Writer) error {
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return s.fail(ctx, "export", "account", ownerID, err)
	}
	rows, err := s.exportRows(ctx, ownerID)
	if err != nil {
		return err
	}
	byAccount := make(map[int64][]models.TransactionView, len(accounts))
	for _, t := range rows {
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	now := s.now()
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	doc.CreateProcInst("OFX", `OFXHEADER="200" VERSION="220" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"`)

	ofx := doc.CreateElement("OFX")
	sonrs := ofx.CreateElement("SIGNONMSGSRSV1").CreateElement("SONRS")
	ofxStatus(sonrs)
	sonrs.CreateElement("DTSERVER").SetText(ofxTime(now))
	sonrs.CreateElement("LANGUAGE").SetText("ENG")

	bank := ofx.CreateElement("BANKMSGSRSV1")
	for _, account := range accounts {
		trnrs := bank.CreateElement("STMTTRNRS")
		trnrs.CreateElement("TRNUID").SetText(strconv.FormatInt(account.ID, 10))
		ofxStatus(trnrs)

		stmtrs := trnrs.CreateElement("STMTRS")
		stmtrs.CreateElement("CURDEF").SetText(s.config.Currency)
		from := stmtrs.CreateElement("BANKACCTFROM")
		from.CreateElement("BANKID").SetText("FINANCE")
		from.CreateElement("ACCTID").SetText(strconv.FormatInt(account.ID, 10))
		from.CreateElement("ACCTTYPE").SetText(ofxAccountType(account.Type))

		txns := byAccount[account.ID]
		list := stmtrs.CreateElement("BANKTRANLIST")
		start, end := now, now
		if len(txns) > 0 {
			start, end = txns[0].Date.Time, txns[len(txns)-1].Date.Time
		}
		list.CreateElement("DTSTART").SetText(ofxTime(start))
		list.CreateElement("DTEND").SetText(ofxTime(end))
		for _, t := range txns {
			trn := list.CreateElement("STMTTRN")
			trnType := "DEBIT"
			if t.Type == models.Income {
				trnType = "CREDIT"
			}
			trn.CreateElement("TRNTYPE").SetText(trnType)
			trn.CreateElement("DTPOSTED").SetText(ofxTime(t.Date.Time))
			trn.CreateElement("TRNAMT").SetText(t.SignedAmount().StringFixed(2))
			trn.CreateElement("FITID").SetText(strconv.FormatInt(t.ID, 10))
			trn.CreateElement("NAME").SetText(t.Title)
			trn.CreateElement("MEMO").SetText(t.CategoryName)
		}

		bal := stmtrs.CreateElement("LEDGERBAL")
		bal.CreateElement("BALAMT").SetText(account.Balance.StringFixed(2))
		bal.CreateElement("DTASOF").SetText(ofxTime(now))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write ofx: %w", err)
	}

	s.log.WithField("owner", ownerID).Infof("Exported %d transactions as OFX", len(rows))
	return nil
}

func ofxStatus(parent *etree.Element) {
	status := parent.CreateElement("STATUS")
	status.CreateElement("CODE").SetText("0")
	status.CreateElement("SEVERITY").SetText("INFO")
}

func ofxTime(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

func ofxAccountType(t models.AccountType) string {
	if t == models.AccountBank {
		return "CHECKING"
	}
	return "SAVINGS"
}

// parseImportDate accepts YYYY-MM-DD and MM/DD/YYYY
func parseImportDate(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return models.DateOf(t), nil
	}
	if t, err := time.Parse(importDateLayoutUS, s); err == nil {
		return models.DateOf(t), nil
	}
	return models.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or MM/DD/YYYY", s)
}

// importColumns maps header names to column positions, case-insensitively
func importColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"date", "title", "amount", "type"} {
		if _, ok := cols[required]; !ok {
			return nil, validationf("missing column %q, expected header %s", required, strings.Join(CSVHeader, ","))
		}
	}
	return cols, nil
}

type importer struct {
	st         store.Store
	ownerID    int64
	accounts   map[string]*models.Account
	categories map[string]*models.Category
	result     *models.ImportResult
}

func (im *importer) account(ctx context.Context, name string) (*models.Account, error) {
	if name == "" {
		name = DefaultAccountName
	}
	key := strings.ToLower(name)
	if a, ok := im.accounts[key]; ok {
		return a, nil
	}
	a, err := im.st.FindAccountByName(ctx, im.ownerID, name)
	if errors.Is(err, store.ErrNotFound) {
		a = &models.Account{UserID: im.ownerID, Name: name, Type: models.AccountCash, OpeningBalance: decimal.Zero}
		if err := im.st.CreateAccount(ctx, a); err != nil {
			return nil, err
		}
		im.result.CreatedAccounts = append(im.result.CreatedAccounts, name)
	} else if err != nil {
		return nil, err
	}
	im.accounts[key] = a
	return a, nil
}

func (im *importer) category(ctx context.Context, name string, typ models.TransactionType) (*models.Category, error) {
	if name == "" {
		name = defaultImportCategory
	}
	key := string(typ) + ":" + strings.ToLower(name)
	if c, ok := im.categories[key]; ok {
		return c, nil
	}
	c, err := im.st.FindCategoryByName(ctx, im.ownerID, name, typ)
	if errors.Is(err, store.ErrNotFound) {
		c = &models.Category{UserID: im.ownerID, Name: name, Type: typ, Icon: defaultCategoryIcon}
		if err := im.st.CreateCategory(ctx, c); err != nil {
			return nil, err
		}
		im.result.CreatedCategories = append(im.result.CreatedCategories, name)
	} else if err != nil {
		return nil, err
	}
	im.categories[key] = c
	return c, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// row turns one CSV record into a transaction ready to post
func (im *importer) row(ctx context.Context, record []string, cols map[string]int) (*models.Transaction, error) {
	date, err := parseImportDate(field(record, cols, "date"))
	if err != nil {
		return nil, validationf("%s", err)
	}
	title := unescapeCell(field(record, cols, "title"))
	if title == "" {
		return nil, validationf("title is required")
	}
	amount, err := decimal.NewFromString(field(record, cols, "amount"))
	if err != nil {
		return nil, validationf("amount must be a positive number")
	}
	if err := positiveAmount("amount", amount); err != nil {
		return nil, err
	}
	typ := models.TransactionType(strings.ToUpper(field(record, cols, "type")))
	if !typ.Valid() {
		return nil, validationf("type must be INCOME or EXPENSE")
	}

	category, err := im.category(ctx, unescapeCell(field(record, cols, "category")), typ)
	if err != nil {
		return nil, err
	}
	account, err := im.account(ctx, unescapeCell(field(record, cols, "account")))
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		UserID:     im.ownerID,
		AccountID:  account.ID,
		CategoryID: category.ID,
		Title:      title,
		Amount:     amount,
		Type:       typ,
		Date:       date,
	}, nil
}

// ImportCSV posts every row of a CSV file as a transaction. The file is applied as a
// whole: the first invalid row aborts the import and nothing is written.
func (s *Service) ImportCSV(ctx context.Context, ownerID int64, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, validationf("file is empty")
	}
	if err != nil {
		return nil, validationf("invalid csv: %s", err)
	}
	cols, err := importColumns(header)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{CreatedAccounts: []string{}, CreatedCategories: []string{}}
	err = s.store.WithTx(ctx, func(st store.Store) error {
		im := &importer{
			st:         st,
			ownerID:    ownerID,
			accounts:   make(map[string]*models.Account),
			categories: make(map[string]*models.Category),
			result:     result,
		}
		for line := 2; ; line++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return validationf("line %d: invalid csv: %s", line, err)
			}
			if isBlank(record) {
				continue
			}
			txn, err := im.row(ctx, record, cols)
			if err != nil {
				var svcErr *Error
				if errors.As(err, &svcErr) {
					return validationf("line %d: %s", line, svcErr.Message)
				}
				return err
			}
			if err := postTransaction(ctx, st, txn); err != nil {
				return err
			}
			result.Imported++
		}
	})
	if err != nil {
		return nil, s.fail(ctx, "import", "transaction", ownerID, err)
	}
	if result.Imported == 0 {
		return nil, validationf("file contains no transactions")
	}

	s.invalidateForecast(ctx, ownerID)
	s.log.WithField("owner", ownerID).Infof("Imported %d transactions", result.Imported)
	return result, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
