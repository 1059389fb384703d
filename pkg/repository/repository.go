package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Infernoman/yiimp/models"
)

type Ledger interface {
	CoinBySymbol(symbol string) (models.Coin, error)
	FailedPayouts(coinId int64, minPayout decimal.Decimal) ([]models.Payout, error)
	CandidateAccounts(coinId int64, failedIds []int64) ([]models.AccountRef, error)
	AnyPayouts(accountIds []int64) (bool, error)
	PayoutsSince(accountId int64, since int64) ([]models.Payout, error)
	UncompletedPayoutsSince(accountId int64, since int64) ([]models.Payout, error)
	LastRepairedAt(accountId int64) (int64, error)
	MarkCompleted(payout *models.Payout) error
	RepairPayout(accountId int64, txid string, t int64, amount, fee decimal.Decimal) error
}

type Repository struct {
	Ledger
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Ledger: NewLedgerPostgres(db),
	}
}
