package service

import (
	"github.com/shopspring/decimal"

	"github.com/Infernoman/yiimp/models"
	"github.com/Infernoman/yiimp/pkg/repository"
)

type repairCall struct {
	accountId int64
	txid      string
	time      int64
	amount    decimal.Decimal
	fee       decimal.Decimal
}

// fakeLedger is an in-memory repository.Ledger for driving the matcher
// and orchestrator in tests.
type fakeLedger struct {
	coins        map[string]models.Coin
	failed       []models.Payout
	accounts     []models.AccountRef
	payouts      map[int64][]models.Payout
	uncompleted  map[int64][]models.Payout
	lastRepaired map[int64]int64

	completedIds []int64
	repairs      []repairCall

	// recorded call arguments
	candidateFailedIds []int64

	coinErr         error
	failedErr       error
	candidatesErr   error
	anyErr          error
	payoutsErr      map[int64]error
	lastRepairedErr map[int64]error
	markErr         error
	repairErr       error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		coins:           map[string]models.Coin{},
		payouts:         map[int64][]models.Payout{},
		uncompleted:     map[int64][]models.Payout{},
		lastRepaired:    map[int64]int64{},
		payoutsErr:      map[int64]error{},
		lastRepairedErr: map[int64]error{},
	}
}

func (f *fakeLedger) CoinBySymbol(symbol string) (models.Coin, error) {
	if f.coinErr != nil {
		return models.Coin{}, f.coinErr
	}
	coin, ok := f.coins[symbol]
	if !ok {
		return models.Coin{}, repository.ErrCoinNotFound
	}
	return coin, nil
}

func (f *fakeLedger) FailedPayouts(coinId int64, minPayout decimal.Decimal) ([]models.Payout, error) {
	if f.failedErr != nil {
		return nil, f.failedErr
	}
	var out []models.Payout
	for _, p := range f.failed {
		if p.Amount.GreaterThan(minPayout) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedger) CandidateAccounts(coinId int64, failedIds []int64) ([]models.AccountRef, error) {
	f.candidateFailedIds = failedIds
	if f.candidatesErr != nil {
		return nil, f.candidatesErr
	}
	return f.accounts, nil
}

func (f *fakeLedger) AnyPayouts(accountIds []int64) (bool, error) {
	if f.anyErr != nil {
		return false, f.anyErr
	}
	for _, id := range accountIds {
		if len(f.payouts[id]) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) PayoutsSince(accountId int64, since int64) ([]models.Payout, error) {
	if err := f.payoutsErr[accountId]; err != nil {
		return nil, err
	}
	var out []models.Payout
	for _, p := range f.payouts[accountId] {
		if p.Time >= since {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedger) UncompletedPayoutsSince(accountId int64, since int64) ([]models.Payout, error) {
	return f.uncompleted[accountId], nil
}

func (f *fakeLedger) LastRepairedAt(accountId int64) (int64, error) {
	if err := f.lastRepairedErr[accountId]; err != nil {
		return 0, err
	}
	return f.lastRepaired[accountId], nil
}

func (f *fakeLedger) MarkCompleted(payout *models.Payout) error {
	if f.markErr != nil {
		return f.markErr
	}
	payout.Completed = true
	f.completedIds = append(f.completedIds, payout.Id)
	return nil
}

func (f *fakeLedger) RepairPayout(accountId int64, txid string, t int64, amount, fee decimal.Decimal) error {
	if f.repairErr != nil {
		return f.repairErr
	}
	f.repairs = append(f.repairs, repairCall{
		accountId: accountId,
		txid:      txid,
		time:      t,
		amount:    amount,
		fee:       fee,
	})
	return nil
}

// fakeWallet records the listtransactions call and serves canned history.
type fakeWallet struct {
	txs     []models.WalletTransaction
	err     error
	account string
	count   int
	calls   int
}

func (f *fakeWallet) ListTransactions(account string, count int) ([]models.WalletTransaction, error) {
	f.calls++
	f.account = account
	f.count = count
	if f.err != nil {
		return nil, f.err
	}
	return f.txs, nil
}
