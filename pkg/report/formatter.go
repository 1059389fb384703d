package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Infernoman/yiimp/models"
)

// Formatter renders a payout check report for the operator.
type Formatter interface {
	Format(r models.Report) string
}

// TextFormatter writes the classic one-line-per-finding console report.
type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) Format(r models.Report) string {
	var b strings.Builder

	if r.FailedAccounts > 0 {
		fmt.Fprintf(&b, "failed payouts detected for %d account(s), %s %s\n",
			r.FailedAccounts, r.FailedTotal, r.Symbol)
	}

	for _, acct := range r.Accounts {
		for _, line := range acct.Anomalies {
			fmt.Fprintln(&b, line)
		}
		if acct.Diff.IsPositive() {
			for _, p := range acct.ExtraLedger {
				fmt.Fprintf(&b, "extra db tx: %s %s %s %s\n",
					formatUnix(p.Time), p.TxId(), p.Amount, r.Symbol)
			}
		}
		if acct.Ok() {
			fmt.Fprintf(&b, "%s: ok\n", acct.Address)
		} else {
			fmt.Fprintf(&b, "%s: Total sent %s (real), %s (db) -> Diff %s %s\n",
				acct.Address, acct.TotalSent, acct.TotalRecorded, acct.Diff, r.Symbol)
		}
	}

	switch {
	case r.Created > 0:
		fmt.Fprintf(&b, "%d payouts confirmed, %d payouts created\n", r.Confirmed, r.Created)
	case r.Confirmed > 0:
		fmt.Fprintf(&b, "%d payouts confirmed\n", r.Confirmed)
	default:
		fmt.Fprintln(&b, "no payouts updated")
	}
	return b.String()
}

func formatUnix(t int64) string {
	return time.Unix(t, 0).UTC().Format("2006-01-02 15:04:05")
}
