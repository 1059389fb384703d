package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Infernoman/yiimp/models"
	"github.com/Infernoman/yiimp/pkg/repository"
)

// confirmationDepth is the block depth past which a matched payout is
// considered final and marked completed.
const confirmationDepth = 5

// matcher reconciles one account's ledger payouts against the shared
// wallet transaction snapshot.
type matcher struct {
	ledger repository.Ledger
	symbol string
	fix    bool
}

func newMatcher(ledger repository.Ledger, symbol string, fix bool) *matcher {
	return &matcher{ledger: ledger, symbol: symbol, fix: fix}
}

// reconcileAccount classifies every qualifying wallet send in the window
// and returns the account's totals, diff and anomaly lines. payouts must
// be most recent first; txs is the whole wallet history page.
func (m *matcher) reconcileAccount(acct models.AccountRef, since int64, payouts []models.Payout, txs []models.WalletTransaction) models.AccountResult {
	res := models.AccountResult{
		AccountId:     acct.Id,
		Address:       acct.Username,
		Since:         since,
		TotalSent:     decimal.Zero,
		TotalRecorded: decimal.Zero,
		Diff:          decimal.Zero,
	}

	for _, tx := range txs {
		if tx.Time < since {
			continue
		}
		if !tx.IsSendTo(acct.Username) {
			continue
		}

		amount := tx.SentAmount()
		fee := tx.AbsFee()
		res.TotalSent = res.TotalSent.Add(amount).Add(fee)

		matched := m.matchPayout(&res, tx, payouts, amount, fee)

		if !matched && m.fix {
			m.repair(&res, tx, amount, fee)
		}
	}

	res.Diff = res.TotalSent.Sub(res.TotalRecorded)
	if res.Diff.IsPositive() {
		extras, err := m.ledger.UncompletedPayoutsSince(acct.Id, since)
		if err != nil {
			logrus.Warnf("listing uncompleted payouts for account %d: %s", acct.Id, err)
			res.Anomalies = append(res.Anomalies,
				fmt.Sprintf("could not list uncompleted payouts: %s", err))
		} else {
			res.ExtraLedger = extras
		}
	}
	return res
}

// matchPayout scans the account's payouts, most recent first, for the
// transaction id. The first row with the same rounded amount wins; rows
// sharing the id with a different rounded amount are surfaced as possible
// matches and keep the transaction out of the repair path.
func (m *matcher) matchPayout(res *models.AccountResult, tx models.WalletTransaction, payouts []models.Payout, amount, fee decimal.Decimal) bool {
	mismatched := false

	for i := range payouts {
		p := &payouts[i]
		if p.TxId() != tx.TxId {
			continue
		}
		if p.Amount.Round(0).Equal(amount.Round(0)) {
			res.TotalRecorded = res.TotalRecorded.Add(amount).Add(fee)
			if tx.Confirmations > confirmationDepth && !p.Completed {
				if err := m.ledger.MarkCompleted(p); err != nil {
					logrus.Warnf("completing payout %d: %s", p.Id, err)
					res.Anomalies = append(res.Anomalies,
						fmt.Sprintf("could not complete payout tx %s: %s", tx.TxId, err))
				} else {
					res.Confirmed++
				}
			}
			return true
		}

		res.Anomalies = append(res.Anomalies,
			fmt.Sprintf("tx %s %s %s != %s %s (possible match)",
				p.TxId(), p.Amount, m.symbol, amount, m.symbol))
		mismatched = true
	}

	if mismatched {
		// A same-txid row with the wrong rounded amount still counts as
		// recorded, otherwise the send would show up as extra.
		res.TotalRecorded = res.TotalRecorded.Add(amount).Add(fee)
	}
	return mismatched
}

// repair creates the missing ledger row for a wallet send nothing in the
// ledger accounts for, debiting the balance in the same transaction.
func (m *matcher) repair(res *models.AccountResult, tx models.WalletTransaction, amount, fee decimal.Decimal) {
	if err := m.ledger.RepairPayout(res.AccountId, tx.TxId, tx.Time, amount, fee); err != nil {
		logrus.Warnf("repairing payout %s for account %d: %s", tx.TxId, res.AccountId, err)
		res.Anomalies = append(res.Anomalies,
			fmt.Sprintf("could not repair tx %s: %s", tx.TxId, err))
		return
	}
	res.Created++
	res.Anomalies = append(res.Anomalies,
		fmt.Sprintf("extra user tx %s %s %s %s",
			tx.TxId, formatUnix(tx.Time), amount, m.symbol))
}

func formatUnix(t int64) string {
	return time.Unix(t, 0).UTC().Format("2006-01-02 15:04:05")
}
