package models

import "github.com/shopspring/decimal"

// WalletTransaction is one entry from the wallet node's listtransactions
// history. Field names and tags follow the bitcoind RPC output; the wallet
// reports outgoing amounts as negative.
type WalletTransaction struct {
	Category      string  `json:"category"`
	Address       string  `json:"address"`
	Amount        float64 `json:"amount"`
	Fee           float64 `json:"fee"`
	TxId          string  `json:"txid"`
	Confirmations int64   `json:"confirmations"`
	Time          int64   `json:"time"`
}

// IsSendTo reports whether the entry is an outgoing send to the given
// payout address. Everything else (deposits, other accounts' sends) is
// ignored by the checker.
func (t WalletTransaction) IsSendTo(address string) bool {
	return t.Category == "send" && t.Address == address
}

// SentAmount returns the unsigned amount of the transaction.
func (t WalletTransaction) SentAmount() decimal.Decimal {
	return decimal.NewFromFloat(t.Amount).Abs()
}

// AbsFee returns the unsigned network fee of the transaction.
func (t WalletTransaction) AbsFee() decimal.Decimal {
	return decimal.NewFromFloat(t.Fee).Abs()
}
