package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iwvelando/emi-planner/internal/store"
	"github.com/iwvelando/emi-planner/pkg/loans"
)

type saveLoanRequest struct {
	loanRequest
	Rows []rowRequest `json:"rows"`
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *handler) handleSaveLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveLoan"

	var req saveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan: %v", err), op)
		return
	}

	loan, err := req.loan()
	if err == nil {
		err = loan.Validate()
	}
	if err == nil && loan.PrepaymentDelayMonths < 0 {
		err = fmt.Errorf("%w: prepayment delay cannot be negative", loans.ErrInvalidLoanTerms)
	}
	if err != nil {
		h.respondErr(w, r, err, "save_loan", op)
		return
	}
	rows, err := parseRows(req.Rows)
	if err != nil {
		h.respondErr(w, r, err, "save_loan", op)
		return
	}

	saved, err := h.store.Save(r.Context(), store.SavedLoan{ID: loan.ID, Loan: loan, Rows: rows})
	h.metrics.SavedLoans.WithLabelValues("save", outcome(err)).Inc()
	if err != nil {
		h.respondErr(w, r, err, "save_loan", op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListLoans"

	saved, err := h.store.List(r.Context())
	h.metrics.SavedLoans.WithLabelValues("list", outcome(err)).Inc()
	if err != nil {
		h.respondErr(w, r, err, "list_loans", op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"loans": saved})
}

func (h *handler) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetLoan"

	saved, err := h.store.Get(r.Context(), r.PathValue("id"))
	h.metrics.SavedLoans.WithLabelValues("get", outcome(err)).Inc()
	if err != nil {
		h.respondErr(w, r, err, "get_loan", op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteLoan"

	err := h.store.Delete(r.Context(), r.PathValue("id"))
	h.metrics.SavedLoans.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		h.respondErr(w, r, err, "delete_loan", op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
