package models

import "github.com/shopspring/decimal"

// Account is a user's balance ledger for one coin. Username holds the
// payout address.
type Account struct {
	Id       int64           `db:"id"`
	CoinId   int64           `db:"coinid"`
	Username string          `db:"username"`
	Balance  decimal.Decimal `db:"balance"`
}

// AccountRef is the candidate-account projection used by the checker.
type AccountRef struct {
	Id       int64  `db:"id"`
	Username string `db:"username"`
}
