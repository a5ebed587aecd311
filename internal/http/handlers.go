package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
	"fintrack/internal/service"
)

const maxBodyBytes = 1 << 20

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type transactionRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
}

type transactionUpdateRequest struct {
	Date        *string `json:"date"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Kind        *string `json:"kind"`
}

type budgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Category:    t.Category,
		Description: t.Description,
		Amount:      t.Amount.String(),
		Kind:        t.Kind.Name(),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if _, err := s.svc.Register(r.Context(), username, req.Password); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		serverError(w, r, "register failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"username": username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := s.svc.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		serverError(w, r, "login failed", err)
		return
	}

	token, err := s.tokens.Generate(profile.Username)
	if err != nil {
		serverError(w, r, "token generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username": profile.Username,
		"token":    token,
	})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := core.ParseAmount(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	kind, err := core.ParseKind(strings.TrimSpace(req.Kind))
	if err != nil {
		writeError(w, http.StatusBadRequest, "kind must be income or expense")
		return
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	username := usernameFromContext(r.Context())
	id, err := s.svc.AddTransaction(r.Context(), username,
		strings.TrimSpace(req.Date), category, strings.TrimSpace(req.Description), amount, kind)
	if err != nil {
		serverError(w, r, "add transaction failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	tx, err := s.svc.GetTransaction(usernameFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		serverError(w, r, "get transaction failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	txs, err := s.svc.ListTransactions(usernameFromContext(r.Context()), category)
	if err != nil {
		serverError(w, r, "list transactions failed", err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req transactionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := ledger.Update{
		Date:        req.Date,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := core.ParseAmount(strings.TrimSpace(*req.Amount))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		upd.Amount = &amount
	}
	if req.Kind != nil {
		kind, err := core.ParseKind(strings.TrimSpace(*req.Kind))
		if err != nil {
			writeError(w, http.StatusBadRequest, "kind must be income or expense")
			return
		}
		upd.Kind = &kind
	}

	err = s.svc.UpdateTransaction(r.Context(), usernameFromContext(r.Context()), id, upd)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		serverError(w, r, "update transaction failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	err = s.svc.DeleteTransaction(r.Context(), usernameFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		serverError(w, r, "delete transaction failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	amount, err := core.ParseAmount(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	err = s.svc.SetBudget(r.Context(), usernameFromContext(r.Context()), category, amount)
	if err != nil {
		serverError(w, r, "set budget failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(usernameFromContext(r.Context()))
	if err != nil {
		serverError(w, r, "summary failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"total_income":  summary.TotalIncome.String(),
		"total_expense": summary.TotalExpense.String(),
		"net":           summary.Net.String(),
	})
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	lines, err := s.svc.BudgetReport(usernameFromContext(r.Context()))
	if err != nil {
		serverError(w, r, "budget report failed", err)
		return
	}

	type budgetLine struct {
		Category string `json:"category"`
		Budget   string `json:"budget"`
		Spent    string `json:"spent"`
		Status   string `json:"status"`
	}
	out := make([]budgetLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, budgetLine{
			Category: line.Category,
			Budget:   line.Budget.String(),
			Spent:    line.Spent.String(),
			Status:   string(line.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.TimeSeries(usernameFromContext(r.Context()))
	if err != nil {
		serverError(w, r, "time series failed", err)
		return
	}

	type periodTotals struct {
		Period  string `json:"period"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Net     string `json:"net"`
	}
	convert := func(in []report.PeriodTotals) []periodTotals {
		out := make([]periodTotals, 0, len(in))
		for _, p := range in {
			out = append(out, periodTotals{
				Period:  p.Period,
				Income:  p.Income.String(),
				Expense: p.Expense.String(),
				Net:     p.Net.String(),
			})
		}
		return out
	}
	writeJSON(w, http.StatusOK, map[string][]periodTotals{
		"monthly": convert(series.Monthly),
		"yearly":  convert(series.Yearly),
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.ErrorContext(r.Context(), message, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
