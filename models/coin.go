package models

import "github.com/shopspring/decimal"

// Coin is one supported currency row. Read-only for payout checks.
type Coin struct {
	Id          int64           `db:"id"`
	Symbol      string          `db:"symbol"`
	TxFee       decimal.Decimal `db:"txfee"`
	RpcEncoding string          `db:"rpcencoding"`
	RpcHost     string          `db:"rpchost"`
	RpcPort     int             `db:"rpcport"`
	RpcUser     string          `db:"rpcuser"`
	RpcPassword string          `db:"rpcpasswd"`
}

// WalletAccount returns the account selector to pass to listtransactions.
// DCR-encoded wallets group every pool account under a single wildcard
// pseudo-account.
func (c Coin) WalletAccount() string {
	if c.RpcEncoding == "DCR" {
		return "*"
	}
	return ""
}
