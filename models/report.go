package models

import "github.com/shopspring/decimal"

// AccountResult is the outcome of reconciling one account against the
// wallet history.
type AccountResult struct {
	AccountId int64
	Address   string
	Since     int64

	Confirmed int
	Created   int

	// TotalSent is the wallet-side truth: every qualifying send in the
	// window, amount plus fee. TotalRecorded covers only sends matched to
	// a ledger payout. Diff = TotalSent - TotalRecorded.
	TotalSent     decimal.Decimal
	TotalRecorded decimal.Decimal
	Diff          decimal.Decimal

	// Anomalies holds human-readable lines for operator review: possible
	// matches, repaired transactions, store failures.
	Anomalies []string

	// ExtraLedger lists still-uncompleted payouts in the window when the
	// wallet paid out more than the ledger records.
	ExtraLedger []Payout
}

// Ok reports whether the account came out consistent for its window.
func (r AccountResult) Ok() bool {
	return r.Diff.IsZero()
}

// Report aggregates one payout check run over a coin.
type Report struct {
	Symbol string

	// Failed-payout summary gathered before matching starts.
	FailedAccounts int
	FailedTotal    decimal.Decimal

	Accounts  []AccountResult
	Confirmed int
	Created   int
}
