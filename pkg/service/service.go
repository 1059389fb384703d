package service

import (
	"github.com/shopspring/decimal"

	"github.com/Infernoman/yiimp/models"
	"github.com/Infernoman/yiimp/pkg/repository"
)

// TransactionLister is the one wallet capability the checker needs.
type TransactionLister interface {
	ListTransactions(account string, count int) ([]models.WalletTransaction, error)
}

// WalletDialer opens a wallet client for the coin the checker loaded.
type WalletDialer func(coin models.Coin) TransactionLister

type Payout interface {
	Check(symbol string, fix bool) (models.Report, error)
}

type Service struct {
	Payout
}

func NewService(repos *repository.Repository, dial WalletDialer, minPayout decimal.Decimal) *Service {
	return &Service{
		Payout: NewPayoutService(repos.Ledger, dial, minPayout),
	}
}
