package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/store/memstore"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		JWTSecret:               "handler-secret",
		JWTTTL:                  time.Hour,
		RequestTimeout:          5 * time.Second,
		Currency:                "IDR",
		ForecastMinTransactions: 7,
	}
	svc := service.NewService(memstore.New(), log, cfg)
	return NewRouter(NewHandler(svc, log), cfg, log)
}

func do(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type session struct {
	id         int64
	token      string
	cash       int64
	categories map[string]int64
}

func signUp(t *testing.T, router http.Handler, email string) session {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"full_name": "Test User", "email": email, "password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", rec.Code, rec.Body.String())
	}
	var login models.LoginResult
	decode(t, rec, &login)
	s := session{id: login.User.ID, token: login.Token, categories: map[string]int64{}}

	var accounts []models.Account
	decode(t, do(t, router, http.MethodGet, "/api/accounts", s.token, nil), &accounts)
	if len(accounts) != 1 {
		t.Fatalf("new user has %d accounts, want 1", len(accounts))
	}
	s.cash = accounts[0].ID

	var categories []models.Category
	decode(t, do(t, router, http.MethodGet, "/api/categories", s.token, nil), &categories)
	for _, c := range categories {
		s.categories[c.Name] = c.ID
	}
	return s
}

func (s session) post(t *testing.T, router http.Handler, category, amount, typ, date string) models.Transaction {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/transactions", s.token, map[string]interface{}{
		"account_id":       s.cash,
		"category_id":      s.categories[category],
		"title":            category,
		"amount":           amount,
		"type":             typ,
		"transaction_date": date,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post transaction status = %d body = %s", rec.Code, rec.Body.String())
	}
	var txn models.Transaction
	decode(t, rec, &txn)
	return txn
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("health status = %d request id = %q", rec.Code, rec.Header().Get("X-Request-ID"))
	}
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "flow@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"duplicate email", http.MethodPost, "/api/auth/register", "", map[string]string{"full_name": "X", "email": "FLOW@example.com", "password": "secret123"}, http.StatusConflict},
		{"short password", http.MethodPost, "/api/auth/register", "", map[string]string{"full_name": "X", "email": "x@example.com", "password": "123"}, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/api/auth/login", "", map[string]string{"email": "flow@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown email", http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "secret123"}, http.StatusUnauthorized},
		{"no token", http.MethodGet, "/api/users/me", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/users/me", "garbage", nil, http.StatusUnauthorized},
		{"profile", http.MethodGet, "/api/users/me", s.token, nil, http.StatusOK},
		{"update profile", http.MethodPut, "/api/users/me", s.token, map[string]string{"full_name": "Renamed"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	var user models.User
	decode(t, do(t, router, http.MethodGet, "/api/users/me", s.token, nil), &user)
	if user.FullName != "Renamed" || user.ID != s.id {
		t.Errorf("profile = %+v", user)
	}
	if strings.Contains(do(t, router, http.MethodGet, "/api/users/me", s.token, nil).Body.String(), "password") {
		t.Error("profile leaks the password hash")
	}
}

func TestOwnerIsolation(t *testing.T) {
	router := newTestRouter(t)
	alice := signUp(t, router, "alice@example.com")
	bob := signUp(t, router, "bob@example.com")
	txn := alice.post(t, router, "Salary", "100", "INCOME", "2026-10-01")

	var debt models.Debt
	decode(t, do(t, router, http.MethodPost, "/api/debts", alice.token, map[string]interface{}{
		"name": "Car", "type": "PAYABLE", "total_amount": "500",
	}), &debt)
	var bill models.ScheduledBillView
	decode(t, do(t, router, http.MethodPost, "/api/scheduled", alice.token, map[string]interface{}{
		"title": "Rent", "amount": "300", "due_date": "2026-11-01",
	}), &bill)
	if debt.ID == 0 || bill.ID == 0 {
		t.Fatalf("setup debt = %+v bill = %+v", debt, bill)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"own accounts by path", http.MethodGet, fmt.Sprintf("/api/accounts/%d", bob.id), nil, http.StatusOK},
		{"other accounts by path", http.MethodGet, fmt.Sprintf("/api/accounts/%d", alice.id), nil, http.StatusNotFound},
		{"other transactions by path", http.MethodGet, fmt.Sprintf("/api/transactions/%d", alice.id), nil, http.StatusNotFound},
		{"other goals by path", http.MethodGet, fmt.Sprintf("/api/goals/%d", alice.id), nil, http.StatusNotFound},
		{"delete other transaction", http.MethodDelete, fmt.Sprintf("/api/transactions/%d", txn.ID), nil, http.StatusNotFound},
		{"reconcile other account", http.MethodGet, fmt.Sprintf("/api/accounts/%d/reconcile", alice.cash), nil, http.StatusNotFound},
		{"post into other account", http.MethodPost, "/api/transactions", map[string]interface{}{
			"account_id": alice.cash, "category_id": bob.categories["Salary"], "title": "x",
			"amount": "5", "type": "INCOME", "transaction_date": "2026-10-01",
		}, http.StatusNotFound},
		{"other debts by path", http.MethodGet, fmt.Sprintf("/api/debts/%d", alice.id), nil, http.StatusNotFound},
		{"pay other debt", http.MethodPut, fmt.Sprintf("/api/debts/%d/pay", debt.ID), map[string]string{"pay_amount": "500"}, http.StatusNotFound},
		{"other debt payments", http.MethodGet, fmt.Sprintf("/api/debts/%d/payments", debt.ID), nil, http.StatusNotFound},
		{"delete other debt", http.MethodDelete, fmt.Sprintf("/api/debts/%d", debt.ID), nil, http.StatusNotFound},
		{"other bills by path", http.MethodGet, fmt.Sprintf("/api/scheduled/%d", alice.id), nil, http.StatusNotFound},
		{"mark other bill paid", http.MethodPut, fmt.Sprintf("/api/scheduled/%d", bill.ID), map[string]string{"status": "PAID"}, http.StatusNotFound},
		{"delete other bill", http.MethodDelete, fmt.Sprintf("/api/scheduled/%d", bill.ID), nil, http.StatusNotFound},
		{"other dashboard", http.MethodGet, fmt.Sprintf("/api/dashboard/%d", alice.id), nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, bob.token, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	var debts []models.Debt
	decode(t, do(t, router, http.MethodGet, "/api/debts", alice.token, nil), &debts)
	if len(debts) != 1 || !debts[0].RemainingAmount.Equal(debt.TotalAmount) || debts[0].Status != models.DebtUnpaid {
		t.Errorf("alice debts after bob's attempts = %+v", debts)
	}
	var bills []models.ScheduledBillView
	decode(t, do(t, router, http.MethodGet, "/api/scheduled", alice.token, nil), &bills)
	if len(bills) != 1 || bills[0].Status != models.BillPending {
		t.Errorf("alice bills after bob's attempts = %+v", bills)
	}
	var bobDebts []models.Debt
	decode(t, do(t, router, http.MethodGet, fmt.Sprintf("/api/debts/%d", bob.id), bob.token, nil), &bobDebts)
	if len(bobDebts) != 0 {
		t.Errorf("bob sees debts %+v", bobDebts)
	}

	var report models.AccountReconciliation
	decode(t, do(t, router, http.MethodGet, fmt.Sprintf("/api/accounts/%d/reconcile", alice.cash), alice.token, nil), &report)
	if !report.Consistent || report.Balance.String() != "100" {
		t.Errorf("alice reconciliation = %+v", report)
	}
}

func TestRequestDecoding(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "decode@example.com")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"name":"BCA","type":"bank","opening_balance":"250.50"}`, http.StatusCreated},
		{"unknown field", `{"name":"BCA","type":"BANK","balance":"5"}`, http.StatusBadRequest},
		{"trailing data", `{"name":"BCA","type":"BANK"}{}`, http.StatusBadRequest},
		{"syntax error", `{"name":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"bad type", `{"name":"BCA","type":"CRYPTO"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/accounts", s.token, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Code >= 400 {
				var body map[string]string
				decode(t, rec, &body)
				if body["error"] == "" {
					t.Errorf("error body missing message: %s", rec.Body.String())
				}
			}
		})
	}
}

func TestTransactionPagination(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "pages@example.com")
	for i := 1; i <= 12; i++ {
		s.post(t, router, "Food & Drinks", "1", "EXPENSE", fmt.Sprintf("2026-09-%02d", i))
	}
	s.post(t, router, "Salary", "50", "INCOME", "2026-10-01")

	var page models.Page[models.TransactionView]
	decode(t, do(t, router, http.MethodGet, "/api/transactions?page=3&limit=5", s.token, nil), &page)
	if len(page.Data) != 3 || page.Pagination.TotalItems != 13 || page.Pagination.TotalPages != 3 || page.Pagination.CurrentPage != 3 {
		t.Errorf("page 3 = %d rows, pagination %+v", len(page.Data), page.Pagination)
	}

	decode(t, do(t, router, http.MethodGet, "/api/transactions?month=10&year=2026", s.token, nil), &page)
	if len(page.Data) != 1 || page.Data[0].CategoryName != "Salary" {
		t.Errorf("october page = %+v", page.Data)
	}

	for _, path := range []string{"/api/transactions?month=10", "/api/transactions?page=abc", "/api/transactions?page=1844674407370955161"} {
		if rec := do(t, router, http.MethodGet, path, s.token, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "errors@example.com")
	s.post(t, router, "Bills", "10", "EXPENSE", "2026-10-01")

	rec := do(t, router, http.MethodDelete, fmt.Sprintf("/api/accounts/%d", s.cash), s.token, nil)
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "transactions") {
		t.Errorf("delete referenced account = %d %s, want 409 naming transactions", rec.Code, rec.Body.String())
	}

	budget := map[string]interface{}{"category_id": s.categories["Bills"], "name": "Utilities", "amount_limit": "100", "month_period": "2026-10"}
	if rec := do(t, router, http.MethodPost, "/api/budgets", s.token, budget); rec.Code != http.StatusCreated {
		t.Fatalf("create budget = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/api/budgets", s.token, budget); rec.Code != http.StatusConflict {
		t.Errorf("duplicate budget = %d, want 409", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/debts", s.token, map[string]interface{}{"name": "Loan", "type": "PAYABLE", "total_amount": "40"})
	var debt models.Debt
	decode(t, rec, &debt)
	rec = do(t, router, http.MethodPut, fmt.Sprintf("/api/debts/%d/pay", debt.ID), s.token, map[string]string{"pay_amount": "100"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pay = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPut, fmt.Sprintf("/api/debts/%d/pay", debt.ID), s.token, map[string]string{"pay_amount": "1"}); rec.Code != http.StatusConflict {
		t.Errorf("pay settled debt = %d, want 409", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/forecast/analyze", s.token, nil)
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") == "" {
		t.Errorf("forecast without engine = %d retry-after %q, want 503", rec.Code, rec.Header().Get("Retry-After"))
	}

	huge := fmt.Sprintf(`{"account_id":%d,"category_id":%d,"title":"x","amount":1e20000000,"type":"INCOME","transaction_date":"2026-10-01"}`,
		s.cash, s.categories["Salary"])
	start := time.Now()
	if rec := do(t, router, http.MethodPost, "/api/transactions", s.token, huge); rec.Code != http.StatusBadRequest || time.Since(start) > time.Second {
		t.Errorf("oversized amount = %d after %s, want a quick 400", rec.Code, time.Since(start))
	}

	if rec := do(t, router, http.MethodGet, "/api/nowhere", s.token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", rec.Code)
	}
}

func TestGoalDepositEndpoint(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "goals@example.com")

	rec := do(t, router, http.MethodPost, "/api/goals", s.token, map[string]interface{}{"name": "Bike", "icon": "bicycle", "target_amount": "200"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d %s", rec.Code, rec.Body.String())
	}
	var goal models.GoalView
	decode(t, rec, &goal)
	if goal.Icon != "bicycle" {
		t.Errorf("goal icon = %q", goal.Icon)
	}
	for i := 0; i < 3; i++ {
		rec = do(t, router, http.MethodPut, fmt.Sprintf("/api/goals/%d/deposit", goal.ID), s.token, map[string]string{"amount": "100"})
		if rec.Code != http.StatusOK {
			t.Fatalf("deposit = %d %s", rec.Code, rec.Body.String())
		}
	}
	decode(t, rec, &goal)
	if goal.CurrentAmount.String() != "300" || goal.DisplayProgress != 100 || goal.Progress != 150 {
		t.Errorf("goal after deposits = %+v", goal)
	}
}

func TestCSVImportAndExport(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "csv@example.com")
	csvBody := "Date,Title,Amount,Type,Category,Account\n2026-10-01,Pay,900,INCOME,Salary,Cash\n2026-10-02,Lunch,15,EXPENSE,Food & Drinks,Cash\n"

	req := httptest.NewRequest(http.MethodPost, "/api/data/import", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("raw import = %d %s", rec.Code, rec.Body.String())
	}

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, _ := mw.CreateFormFile("file", "more.csv")
	io.WriteString(part, "Date,Title,Amount,Type,Category,Account\n2026-10-03,Bus,5,EXPENSE,Transportation,Cash\n")
	mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/data/import", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var result models.ImportResult
	decode(t, rec, &result)
	if rec.Code != http.StatusOK || result.Imported != 1 {
		t.Fatalf("multipart import = %d %+v", rec.Code, result)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/data/import", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("json import = %d, want 415", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/data/export", s.token, nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "transactions.csv") {
		t.Errorf("content disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 || lines[3] != "2026-10-03,Bus,5,EXPENSE,Transportation,Cash" {
		t.Errorf("exported lines = %q", lines)
	}

	for _, path := range []string{"/api/data/export/xlsx", "/api/data/export/ofx"} {
		if rec := do(t, router, http.MethodGet, path, s.token, nil); rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Errorf("GET %s = %d with %d bytes", path, rec.Code, rec.Body.Len())
		}
	}
}

func TestDashboardEndpoints(t *testing.T) {
	router := newTestRouter(t)
	s := signUp(t, router, "dashboard@example.com")
	today := time.Now().Format(models.DateLayout)
	s.post(t, router, "Salary", "500", "INCOME", today)
	s.post(t, router, "Food & Drinks", "25", "EXPENSE", today)

	var summary models.DashboardSummary
	rec := do(t, router, http.MethodGet, fmt.Sprintf("/api/dashboard/%d", s.id), s.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &summary)
	if summary.UserName != "Test User" || !summary.TotalBalance.Equal(decimal.NewFromInt(475)) ||
		!summary.MonthlyExpense.Equal(decimal.NewFromInt(25)) || len(summary.RecentTransactions) != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(rec.Body.String(), `"recentTransactions"`) || !strings.Contains(rec.Body.String(), `"upcomingBills":[]`) {
		t.Errorf("summary body = %s", rec.Body.String())
	}

	var points []models.ChartPoint
	decode(t, do(t, router, http.MethodGet, "/api/dashboard/chart-data?range=30D", s.token, nil), &points)
	if len(points) != 30 || !points[29].Value.Equal(decimal.NewFromInt(25)) {
		t.Errorf("chart = %+v", points)
	}
	decode(t, do(t, router, http.MethodGet, fmt.Sprintf("/api/dashboard/pie-data/%d", s.id), s.token, nil), &points)
	if len(points) != 1 || points[0].Label != "Food & Drinks" {
		t.Errorf("pie = %+v", points)
	}

	for _, path := range []string{"/api/dashboard?month=13&year=2026", "/api/dashboard?month=x", "/api/dashboard/chart-data?range=1Y"} {
		if rec := do(t, router, http.MethodGet, path, s.token, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, rec.Code)
		}
	}
}
