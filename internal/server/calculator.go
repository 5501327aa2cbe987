package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/internal/config"
	"github.com/iwvelando/emi-planner/internal/planner"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"github.com/iwvelando/emi-planner/pkg/parse"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// text accepts either a JSON string or a JSON number, so clients can send
// amounts as typed ("₹14,54,615") or as plain numbers.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

type loanRequest struct {
	ID                    text `json:"id"`
	Name                  text `json:"name"`
	StartDate             text `json:"startDate"`
	Principal             text `json:"principal"`
	InterestRate          text `json:"interestRate"`
	Tenure                text `json:"tenure"`
	Moratorium            text `json:"moratorium"`
	PrepaymentDelayMonths int  `json:"prepaymentDelayMonths"`
}

func (l loanRequest) loan() (loans.Loan, error) {
	return config.Loan{
		ID:                    string(l.ID),
		Name:                  string(l.Name),
		Principal:             string(l.Principal),
		InterestRate:          string(l.InterestRate),
		Tenure:                string(l.Tenure),
		Moratorium:            string(l.Moratorium),
		PrepaymentDelayMonths: l.PrepaymentDelayMonths,
	}.ToLoan()
}

func (l loanRequest) start() (time.Time, error) {
	start, err := parse.OptionalDate(string(l.StartDate), time.Now().UTC())
	if err != nil {
		return time.Time{}, fmt.Errorf("startDate: %w", err)
	}
	return start, nil
}

type rowRequest struct {
	StartDate text `json:"startDate"`
	EndDate   text `json:"endDate"`
	Amount    text `json:"amount"`
}

func parseRows(requests []rowRequest) ([]loans.PrepaymentRow, error) {
	rows := make([]loans.PrepaymentRow, 0, len(requests))
	for i, r := range requests {
		row, err := config.PrepaymentRow{
			StartDate: string(r.StartDate),
			EndDate:   string(r.EndDate),
			Amount:    string(r.Amount),
		}.ToRow()
		if err != nil {
			return nil, fmt.Errorf("prepayment row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, loans.ValidateRows(rows)
}

type emiResponse struct {
	loans.LoanAnalysis
	Yearly []loans.YearSummary `json:"yearly"`
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEMI"

	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan: %v", err), op)
		return
	}

	loan, err := req.loan()
	if err != nil {
		h.respondErr(w, r, err, "emi", op)
		return
	}
	start, err := req.start()
	if err != nil {
		h.respondErr(w, r, err, "emi", op)
		return
	}

	analysis, err := loans.AnalyzeLoan(loan.LoanTerms, start)
	if err != nil {
		h.respondErr(w, r, err, "emi", op)
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.Float64("loan.emi", analysis.EMI),
		attribute.Int("loan.months", len(analysis.Schedule)),
	)

	h.writeJSON(w, http.StatusOK, emiResponse{
		LoanAnalysis: analysis,
		Yearly:       loans.YearlyBreakdown(analysis.Schedule),
	})
}

type prepaymentRequest struct {
	loanRequest
	// Mode is custom (the default) or 16-emi-rule.
	Mode string       `json:"mode"`
	Rows []rowRequest `json:"rows"`
}

type prepaymentResponse struct {
	loans.Comparison
	Yearly       []loans.YearSummary   `json:"yearly"`
	EditableRows []loans.PrepaymentRow `json:"editableRows"`
}

func (h *handler) handlePrepayments(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePrepayments"

	var req prepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode prepayments: %v", err), op)
		return
	}

	loan, err := req.loan()
	if err != nil {
		h.respondErr(w, r, err, "prepayments", op)
		return
	}
	if loan.PrepaymentDelayMonths < 0 {
		h.respondErr(w, r, fmt.Errorf("%w: prepayment delay cannot be negative", loans.ErrInvalidLoanTerms), "prepayments", op)
		return
	}
	start, err := req.start()
	if err != nil {
		h.respondErr(w, r, err, "prepayments", op)
		return
	}
	modeName := req.Mode
	if strings.TrimSpace(modeName) == "" {
		modeName = string(planner.ModeCustom)
	}
	mode, err := planner.ParseMode(modeName)
	if err != nil {
		h.respondErr(w, r, err, "prepayments", op)
		return
	}

	var rows []loans.PrepaymentRow
	switch mode {
	case planner.ModeSixteenEMI:
		rows = templateRows(loan, start)
	case planner.ModeNone:
	default:
		rows, err = parseRows(req.Rows)
		if err != nil {
			h.respondErr(w, r, err, "prepayments", op)
			return
		}
	}

	comparison, err := loans.CompareWithPrepayments(loan.LoanTerms, start, rows, loan.PrepaymentDelayMonths)
	if err != nil {
		h.respondErr(w, r, err, "prepayments", op)
		return
	}

	h.logger.Debug(fmt.Sprintf("%s prepayments of %.2f save %.2f in interest", mode, comparison.TotalPrepayments, comparison.InterestSaved),
		zap.String("op", op),
	)
	h.writeJSON(w, http.StatusOK, prepaymentResponse{
		Comparison:   comparison,
		Yearly:       loans.YearlyBreakdown(comparison.Prepaid.Schedule),
		EditableRows: loans.RowsFromPrepayments(comparison.Prepaid.Schedule, loan.PrepaymentDelayMonths),
	})
}

// templateRows spells the single-loan 16-EMI template out as one row per
// prepayment month.
func templateRows(loan loans.Loan, start time.Time) []loans.PrepaymentRow {
	ledger := planner.TemplateLedger(loan, start, start)
	rows := make([]loans.PrepaymentRow, 0, len(ledger))
	for _, key := range ledger.Months() {
		month := key.Time()
		rows = append(rows, loans.PrepaymentRow{StartDate: month, EndDate: month, Amount: ledger.Available(key)})
	}
	return rows
}
