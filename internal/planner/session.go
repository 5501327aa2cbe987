package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/loans"
)

// Mode selects how the prepayment pool is defined.
type Mode string

const (
	// ModeNone computes baseline schedules only.
	ModeNone Mode = constants.PrepaymentModeNone
	// ModeCustom shares date-ranged rows across loans.
	ModeCustom Mode = constants.PrepaymentModeCustom
	// ModeSixteenEMI pays one extra EMI every third month, carried from
	// loan to loan.
	ModeSixteenEMI Mode = constants.PrepaymentModeSixteenEMI
)

// ParseMode accepts a mode name case-insensitively. An empty name is
// ModeNone.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeNone, nil
	case ModeNone, ModeCustom, ModeSixteenEMI:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// PrepaymentConfig defines the shared prepayment pool of a session. Rows
// are only read in ModeCustom.
type PrepaymentConfig struct {
	Mode Mode                  `json:"mode"`
	Rows []loans.PrepaymentRow `json:"rows,omitempty"`
}

// Session is the caller-owned input of one planning run.
type Session struct {
	Start      time.Time        `json:"start"`
	Strategy   loans.Strategy   `json:"strategy"`
	Loans      []loans.Loan     `json:"loans"`
	Prepayment PrepaymentConfig `json:"prepayment"`
}

// NewSession creates an empty session. A zero start means the current
// month.
func NewSession(start time.Time, strategy loans.Strategy) *Session {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Session{
		Start:      start,
		Strategy:   strategy,
		Prepayment: PrepaymentConfig{Mode: ModeNone},
	}
}

// AddLoan appends a loan, naming it by position when it has no ID.
func (s *Session) AddLoan(loan loans.Loan) {
	if loan.ID == "" {
		loan.ID = fmt.Sprintf("loan-%d", len(s.Loans)+1)
	}
	s.Loans = append(s.Loans, loan)
}

// UseCustomRows switches the session to custom prepayments.
func (s *Session) UseCustomRows(rows []loans.PrepaymentRow) {
	s.Prepayment = PrepaymentConfig{Mode: ModeCustom, Rows: rows}
}

// UseSixteenEMIRule switches the session to the 16-EMI template.
func (s *Session) UseSixteenEMIRule() {
	s.Prepayment = PrepaymentConfig{Mode: ModeSixteenEMI}
}

// Reset clears loans and prepayments, keeping the start date and strategy.
func (s *Session) Reset() {
	s.Loans = nil
	s.Prepayment = PrepaymentConfig{Mode: ModeNone}
}
