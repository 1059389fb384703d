package models

import "github.com/shopspring/decimal"

// Payout is one disbursement attempt recorded in the ledger. Tx is NULL
// when the disbursement failed before a transaction was broadcast.
type Payout struct {
	Id        int64           `db:"id"`
	AccountId int64           `db:"account_id"`
	Tx        *string         `db:"tx"`
	Amount    decimal.Decimal `db:"amount"`
	Fee       decimal.Decimal `db:"fee"`
	Time      int64           `db:"time"`
	Completed bool            `db:"completed"`
}

// TxId returns the wallet transaction id or "" for failed payouts.
func (p Payout) TxId() string {
	if p.Tx == nil {
		return ""
	}
	return *p.Tx
}
