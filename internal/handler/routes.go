package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every route. Paths under /api except /api/auth require a bearer token.
func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log), middleware.Recoverer(log), middleware.Timeout(cfg.RequestTimeout))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	// Public routes
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	authRouter := api.NewRoute().Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/users/me", h.Profile).Methods(http.MethodGet)
	authRouter.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPut)

	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/{owner:[0-9]+}", h.Dashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/chart-data", h.ChartData).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/chart-data/{owner:[0-9]+}", h.ChartData).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/pie-data", h.PieData).Methods(http.MethodGet)
	authRouter.HandleFunc("/dashboard/pie-data/{owner:[0-9]+}", h.PieData).Methods(http.MethodGet)

	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	authRouter.HandleFunc("/accounts/{owner:[0-9]+}", h.ListAccounts).Methods(http.MethodGet)
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	authRouter.HandleFunc("/accounts/{id:[0-9]+}", h.UpdateAccount).Methods(http.MethodPut)
	authRouter.HandleFunc("/accounts/{id:[0-9]+}", h.DeleteAccount).Methods(http.MethodDelete)
	authRouter.HandleFunc("/accounts/{id:[0-9]+}/reconcile", h.ReconcileAccount).Methods(http.MethodGet)

	authRouter.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	authRouter.HandleFunc("/categories", h.CreateCategory).Methods(http.MethodPost)
	authRouter.HandleFunc("/categories/{id:[0-9]+}", h.ArchiveCategory).Methods(http.MethodDelete)

	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	authRouter.HandleFunc("/transactions/{owner:[0-9]+}", h.ListTransactions).Methods(http.MethodGet)
	authRouter.HandleFunc("/transactions", h.PostTransaction).Methods(http.MethodPost)
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.EditTransaction).Methods(http.MethodPut)
	authRouter.HandleFunc("/transactions/{id:[0-9]+}", h.DeleteTransaction).Methods(http.MethodDelete)

	authRouter.HandleFunc("/budgets", h.BudgetStatus).Methods(http.MethodGet)
	authRouter.HandleFunc("/budgets/{owner:[0-9]+}", h.BudgetStatus).Methods(http.MethodGet)
	authRouter.HandleFunc("/budgets", h.CreateBudget).Methods(http.MethodPost)
	authRouter.HandleFunc("/budgets/{id:[0-9]+}", h.UpdateBudget).Methods(http.MethodPut)
	authRouter.HandleFunc("/budgets/{id:[0-9]+}", h.DeleteBudget).Methods(http.MethodDelete)
	authRouter.HandleFunc("/budgeting", h.BudgetingSummary).Methods(http.MethodGet)

	authRouter.HandleFunc("/goals", h.ListGoals).Methods(http.MethodGet)
	authRouter.HandleFunc("/goals/{owner:[0-9]+}", h.ListGoals).Methods(http.MethodGet)
	authRouter.HandleFunc("/goals", h.CreateGoal).Methods(http.MethodPost)
	authRouter.HandleFunc("/goals/{id:[0-9]+}", h.EditGoal).Methods(http.MethodPut)
	authRouter.HandleFunc("/goals/{id:[0-9]+}/deposit", h.Deposit).Methods(http.MethodPut)
	authRouter.HandleFunc("/goals/{id:[0-9]+}", h.DeleteGoal).Methods(http.MethodDelete)

	authRouter.HandleFunc("/debts", h.ListDebts).Methods(http.MethodGet)
	authRouter.HandleFunc("/debts/{owner:[0-9]+}", h.ListDebts).Methods(http.MethodGet)
	authRouter.HandleFunc("/debts", h.CreateDebt).Methods(http.MethodPost)
	authRouter.HandleFunc("/debts/{id:[0-9]+}/pay", h.PayDebt).Methods(http.MethodPut)
	authRouter.HandleFunc("/debts/{id:[0-9]+}/payments", h.DebtPayments).Methods(http.MethodGet)
	authRouter.HandleFunc("/debts/{id:[0-9]+}", h.DeleteDebt).Methods(http.MethodDelete)

	authRouter.HandleFunc("/scheduled", h.ListBills).Methods(http.MethodGet)
	authRouter.HandleFunc("/scheduled/{owner:[0-9]+}", h.ListBills).Methods(http.MethodGet)
	authRouter.HandleFunc("/scheduled", h.CreateBill).Methods(http.MethodPost)
	authRouter.HandleFunc("/scheduled/{id:[0-9]+}", h.UpdateBill).Methods(http.MethodPut)
	authRouter.HandleFunc("/scheduled/{id:[0-9]+}", h.DeleteBill).Methods(http.MethodDelete)

	authRouter.HandleFunc("/data/export", h.ExportCSV).Methods(http.MethodGet)
	authRouter.HandleFunc("/data/export/xlsx", h.ExportXLSX).Methods(http.MethodGet)
	authRouter.HandleFunc("/data/export/ofx", h.ExportOFX).Methods(http.MethodGet)
	authRouter.HandleFunc("/data/import", h.ImportCSV).Methods(http.MethodPost)

	authRouter.HandleFunc("/forecast/analyze", h.Forecast).Methods(http.MethodGet)
	authRouter.HandleFunc("/forecast/stats", h.ForecastStats).Methods(http.MethodGet)
	authRouter.HandleFunc("/forecast/health", h.ForecastHealth).Methods(http.MethodGet)

	return r
}
