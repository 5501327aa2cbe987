// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/emi-planner/internal/config"
	"github.com/iwvelando/emi-planner/internal/planner"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"go.uber.org/zap"
)

// FindLoan finds a loan result by loan ID in a planner result.
// Returns a pointer to the loan result if found, nil otherwise.
func FindLoan(result *planner.Result, id string) *loans.LoanResult {
	if result == nil {
		return nil
	}
	for i := range result.Loans {
		if result.Loans[i].Loan.ID == id {
			return &result.Loans[i]
		}
	}
	return nil
}

// PlanFile loads the configuration at path and plans it as the command line
// tool does, with now standing in for an empty start date.
func PlanFile(logger *zap.Logger, path string, now time.Time) (*planner.Result, error) {
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, err
	}
	session, err := conf.Session(now)
	if err != nil {
		return nil, err
	}
	return planner.New(logger).Run(session)
}
