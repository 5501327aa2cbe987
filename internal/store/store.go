// Package store keeps loans that users saved from the HTTP API, together
// with the prepayment rows they were planned with.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/emi-planner/pkg/loans"
)

// ErrNotFound is returned when no saved loan has the requested ID.
var ErrNotFound = errors.New("saved loan not found")

// SavedLoan is one stored loan.
type SavedLoan struct {
	ID      string                `json:"id"`
	SavedAt time.Time             `json:"savedAt"`
	Loan    loans.Loan            `json:"loan"`
	Rows    []loans.PrepaymentRow `json:"rows,omitempty"`
}

// LoanStore persists saved loans.
type LoanStore interface {
	// Save stores loan, assigning an ID and timestamp when they are unset,
	// and returns what was stored. Saving an existing ID replaces it.
	Save(ctx context.Context, loan SavedLoan) (SavedLoan, error)
	Get(ctx context.Context, id string) (SavedLoan, error)
	// List returns every saved loan, oldest first.
	List(ctx context.Context) ([]SavedLoan, error)
	Delete(ctx context.Context, id string) error
}

func prepare(loan SavedLoan, now time.Time) SavedLoan {
	loan.ID = strings.TrimSpace(loan.ID)
	if loan.ID == "" {
		loan.ID = uuid.NewString()
	}
	if loan.SavedAt.IsZero() {
		loan.SavedAt = now.UTC()
	}
	if loan.Loan.ID == "" {
		loan.Loan.ID = loan.ID
	}
	return loan
}

func sortSaved(saved []SavedLoan) {
	sort.SliceStable(saved, func(i, j int) bool {
		if saved[i].SavedAt.Equal(saved[j].SavedAt) {
			return saved[i].ID < saved[j].ID
		}
		return saved[i].SavedAt.Before(saved[j].SavedAt)
	})
}
