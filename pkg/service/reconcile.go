package service

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Infernoman/yiimp/models"
	"github.com/Infernoman/yiimp/pkg/repository"
)

const (
	// txPageSize bounds the wallet history fetch. Large enough to cover
	// the audit window in practice; very old windows may still fall off
	// the page.
	txPageSize = 25000

	// fallbackWindow is how far back an account is audited when it has
	// no repair watermark.
	fallbackWindow = 7 * 24 * time.Hour
)

// PayoutService drives a payout check run for one coin: candidate
// selection, the single wallet fetch, per-account matching, repairs and
// the final report.
type PayoutService struct {
	ledger    repository.Ledger
	dial      WalletDialer
	minPayout decimal.Decimal
	now       func() time.Time
}

func NewPayoutService(ledger repository.Ledger, dial WalletDialer, minPayout decimal.Decimal) *PayoutService {
	return &PayoutService{
		ledger:    ledger,
		dial:      dial,
		minPayout: minPayout,
		now:       time.Now,
	}
}

// Check reconciles the coin's ledger payouts against the wallet history.
// With fix set, wallet sends with no ledger row are recorded and the
// account balance debited; otherwise the run only confirms and reports.
func (s *PayoutService) Check(symbol string, fix bool) (models.Report, error) {
	report := models.Report{Symbol: symbol, FailedTotal: decimal.Zero}

	coin, err := s.ledger.CoinBySymbol(symbol)
	if err != nil {
		return report, err
	}

	minPayout := decimal.Max(coin.TxFee, s.minPayout)
	failed, err := s.ledger.FailedPayouts(coin.Id, minPayout)
	if err != nil {
		return report, err
	}
	failedIds := aggregateFailed(failed, &report)

	accounts, err := s.ledger.CandidateAccounts(coin.Id, failedIds)
	if err != nil {
		return report, err
	}
	if len(accounts) == 0 {
		return report, nil
	}

	any, err := s.ledger.AnyPayouts(accountIds(accounts))
	if err != nil {
		return report, err
	}
	if !any {
		return report, nil
	}

	// One fetch for the whole run; every account matches against the
	// same snapshot.
	wallet := s.dial(coin)
	txs, err := wallet.ListTransactions(coin.WalletAccount(), txPageSize)
	if err != nil {
		return report, errors.Wrapf(err, "listing %s wallet transactions", symbol)
	}

	m := newMatcher(s.ledger, coin.Symbol, fix)
	for _, acct := range accounts {
		res, err := s.checkAccount(m, acct, txs)
		if err != nil {
			// Per-account store failures are not fatal to the run.
			logrus.Warnf("account %d (%s): %s", acct.Id, acct.Username, err)
			res = models.AccountResult{
				AccountId: acct.Id,
				Address:   acct.Username,
				Anomalies: []string{fmt.Sprintf("skipped: %s", err)},
			}
		}
		report.Accounts = append(report.Accounts, res)
		report.Confirmed += res.Confirmed
		report.Created += res.Created
	}
	return report, nil
}

func (s *PayoutService) checkAccount(m *matcher, acct models.AccountRef, txs []models.WalletTransaction) (models.AccountResult, error) {
	since, err := s.ledger.LastRepairedAt(acct.Id)
	if err != nil {
		return models.AccountResult{}, err
	}
	if since == 0 {
		since = s.now().Add(-fallbackWindow).Unix()
	}

	payouts, err := s.ledger.PayoutsSince(acct.Id, since)
	if err != nil {
		return models.AccountResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"account": acct.Id,
		"address": acct.Username,
		"since":   formatUnix(since),
	}).Debugf("%d payouts in window", len(payouts))

	return m.reconcileAccount(acct, since, payouts, txs), nil
}

// aggregateFailed sums the never-broadcast payouts per account and fills
// the report's upfront summary, returning the affected account ids.
func aggregateFailed(failed []models.Payout, report *models.Report) []int64 {
	sums := make(map[int64]decimal.Decimal)
	var ids []int64
	total := decimal.Zero
	for _, p := range failed {
		if _, seen := sums[p.AccountId]; !seen {
			ids = append(ids, p.AccountId)
		}
		sums[p.AccountId] = sums[p.AccountId].Add(p.Amount)
		total = total.Add(p.Amount)
	}
	report.FailedAccounts = len(ids)
	report.FailedTotal = total
	return ids
}

func accountIds(accounts []models.AccountRef) []int64 {
	ids := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.Id)
	}
	return ids
}
