package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Infernoman/yiimp/models"
)

// ErrCoinNotFound is returned when the requested symbol has no coins row.
var ErrCoinNotFound = errors.New("coin not found")

type LedgerPostgres struct {
	db *sqlx.DB
}

func NewLedgerPostgres(db *sqlx.DB) *LedgerPostgres {
	return &LedgerPostgres{db: db}
}

func (r *LedgerPostgres) CoinBySymbol(symbol string) (models.Coin, error) {
	var coin models.Coin
	query := `SELECT id, symbol, txfee, rpcencoding, rpchost, rpcport, rpcuser, rpcpasswd FROM coins WHERE symbol = $1`
	err := r.db.Get(&coin, query, symbol)
	if err == sql.ErrNoRows {
		return coin, ErrCoinNotFound
	}
	if err != nil {
		return coin, errors.Wrapf(err, "loading coin %s", symbol)
	}
	return coin, nil
}

// FailedPayouts lists payouts that never got a wallet transaction id,
// above the coin's effective minimum. Generally caused by bad wallet
// account balances at disbursement time.
func (r *LedgerPostgres) FailedPayouts(coinId int64, minPayout decimal.Decimal) ([]models.Payout, error) {
	var payouts []models.Payout
	query := `
        SELECT P.id, P.account_id, P.tx, P.amount, P.fee, P.time, P.completed
        FROM payouts P
        JOIN accounts A ON A.id = P.account_id
        WHERE P.tx IS NULL AND P.amount > $1 AND A.coinid = $2
        ORDER BY P.time DESC
    `
	err := r.db.Select(&payouts, query, minPayout, coinId)
	if err != nil {
		return nil, errors.Wrap(err, "loading failed payouts")
	}
	return payouts, nil
}

// CandidateAccounts selects the accounts worth auditing: positive balance,
// widened by the ids carrying failed payouts.
func (r *LedgerPostgres) CandidateAccounts(coinId int64, failedIds []int64) ([]models.AccountRef, error) {
	var accounts []models.AccountRef
	query := `
        SELECT DISTINCT A.id, A.username
        FROM accounts A
        WHERE A.coinid = $1 AND (A.balance > 0.0 OR A.id = ANY($2))
    `
	err := r.db.Select(&accounts, query, coinId, pq.Array(failedIds))
	if err != nil {
		return nil, errors.Wrap(err, "loading candidate accounts")
	}
	return accounts, nil
}

func (r *LedgerPostgres) AnyPayouts(accountIds []int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payouts WHERE account_id = ANY($1))`
	err := r.db.Get(&exists, query, pq.Array(accountIds))
	if err != nil {
		return false, errors.Wrap(err, "checking for payouts")
	}
	return exists, nil
}

func (r *LedgerPostgres) PayoutsSince(accountId int64, since int64) ([]models.Payout, error) {
	var payouts []models.Payout
	query := `
        SELECT id, account_id, tx, amount, fee, time, completed
        FROM payouts
        WHERE account_id = $1 AND time >= $2
        ORDER BY time DESC
    `
	err := r.db.Select(&payouts, query, accountId, since)
	if err != nil {
		return nil, errors.Wrapf(err, "loading payouts for account %d", accountId)
	}
	return payouts, nil
}

func (r *LedgerPostgres) UncompletedPayoutsSince(accountId int64, since int64) ([]models.Payout, error) {
	var payouts []models.Payout
	query := `
        SELECT id, account_id, tx, amount, fee, time, completed
        FROM payouts
        WHERE completed = false AND account_id = $1 AND time > $2
        ORDER BY time DESC
    `
	err := r.db.Select(&payouts, query, accountId, since)
	if err != nil {
		return nil, errors.Wrapf(err, "loading uncompleted payouts for account %d", accountId)
	}
	return payouts, nil
}

// LastRepairedAt returns the time of the account's most recent payout with
// a positive fee, 0 when there is none. Repair rows always persist the
// wallet fee, so this doubles as the repair watermark.
func (r *LedgerPostgres) LastRepairedAt(accountId int64) (int64, error) {
	var t int64
	query := `SELECT COALESCE(MAX(time), 0) FROM payouts WHERE account_id = $1 AND fee > 0.0`
	err := r.db.Get(&t, query, accountId)
	if err != nil {
		return 0, errors.Wrapf(err, "loading repair watermark for account %d", accountId)
	}
	return t, nil
}

func (r *LedgerPostgres) MarkCompleted(payout *models.Payout) error {
	query := `UPDATE payouts SET completed = true WHERE id = $1`
	_, err := r.db.Exec(query, payout.Id)
	if err != nil {
		return errors.Wrapf(err, "completing payout %d", payout.Id)
	}
	payout.Completed = true
	return nil
}

// RepairPayout records a wallet transaction the ledger missed: inserts a
// completed payout row and debits the account balance and its snapshot
// rows from the transaction time onward, all in one transaction.
func (r *LedgerPostgres) RepairPayout(accountId int64, txid string, t int64, amount, fee decimal.Decimal) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "opening repair transaction")
	}

	insert := `
        INSERT INTO payouts (account_id, tx, time, amount, fee, completed)
        VALUES ($1, $2, $3, $4, $5, true)
    `
	if _, err := tx.Exec(insert, accountId, txid, t, amount, fee); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "inserting repair payout %s", txid)
	}

	debit := `UPDATE accounts SET balance = balance - $1 WHERE id = $2`
	if _, err := tx.Exec(debit, amount, accountId); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "debiting account %d", accountId)
	}

	snapshot := `UPDATE balanceuser SET balance = balance - $1 WHERE userid = $2 AND time >= $3`
	if _, err := tx.Exec(snapshot, amount, accountId, t); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "debiting balance snapshots for account %d", accountId)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing repair")
	}
	return nil
}
