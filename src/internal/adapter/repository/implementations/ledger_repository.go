package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/shopspring/decimal"
)

const postingLockTimeout = "5s"

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// PostTrade appends posting to the ledger and moves the account's cash in the
// same database transaction. The account row is locked first, so postings for
// one account are applied one at a time and the balance and share checks run
// against committed state.
func (r *LedgerRepository) PostTrade(ctx context.Context, posting domain.TradePosting) (_ domain.Transaction, _ domain.Account, err error) {
	logger.Info("ledger repository post trade", logger.Fields{
		"accountId": posting.AccountID,
		"kind":      posting.Kind,
		"symbol":    posting.Symbol,
		"shares":    posting.Shares,
		"unitPrice": posting.UnitPrice,
	})

	if err := posting.Validate(); err != nil {
		return domain.Transaction{}, domain.Account{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("begin posting transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
			err = mapPostingError(err)
			logger.Error("ledger repository post trade failed", err, logger.Fields{
				"accountId": posting.AccountID,
				"kind":      posting.Kind,
				"symbol":    posting.Symbol,
			})
		}
	}()

	if _, err = tx.ExecContext(ctx, "SET LOCAL lock_timeout = '"+postingLockTimeout+"'"); err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("set lock timeout: %w", err)
	}

	const lockAccountQuery = `
SELECT cash
FROM accounts
WHERE id = $1
FOR UPDATE`

	var cash decimal.Decimal
	if err = tx.QueryRowContext(ctx, lockAccountQuery, posting.AccountID).Scan(&cash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("lock account: %w", err)
	}

	switch posting.Kind {
	case domain.TransactionKindBuy:
		if cash.LessThan(posting.Amount()) {
			err = domain.InsufficientFundsError(posting.Amount(), cash)
			return domain.Transaction{}, domain.Account{}, err
		}
	case domain.TransactionKindSell:
		var held int64
		if held, err = sharesHeld(ctx, tx, posting.AccountID, posting.Symbol); err != nil {
			return domain.Transaction{}, domain.Account{}, err
		}
		if held <= 0 {
			err = domain.NotOwnedError(posting.Symbol)
			return domain.Transaction{}, domain.Account{}, err
		}
		if posting.Shares > held {
			err = domain.InsufficientSharesError(posting.Symbol, held, posting.Shares)
			return domain.Transaction{}, domain.Account{}, err
		}
	}

	const updateCashQuery = `
UPDATE accounts
SET cash = cash + $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND cash + $2::numeric >= 0`

	if _, err = execRequiredRows(ctx, tx, updateCashQuery, posting.AccountID, posting.CashDelta()); err != nil {
		return domain.Transaction{}, domain.Account{}, err
	}

	const insertQuery = `
INSERT INTO transactions (
	account_id,
	symbol,
	shares,
	unit_price,
	kind,
	executed_at
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	if err = tx.QueryRowContext(
		ctx,
		insertQuery,
		posting.AccountID,
		posting.Symbol,
		posting.Shares,
		posting.UnitPrice,
		string(posting.Kind),
		posting.ExecutedAt,
	).Scan(&id); err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("insert transaction: %w", err)
	}

	const readAccountQuery = `
SELECT id, username, password_hash, cash, created_at, updated_at
FROM accounts
WHERE id = $1`

	var account domain.Account
	if err = scanAccount(tx.QueryRowContext(ctx, readAccountQuery, posting.AccountID), &account); err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("read posted account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("commit posting transaction: %w", err)
	}

	logger.Info("ledger repository post trade success", logger.Fields{
		"accountId":     account.ID,
		"transactionId": id,
		"cash":          account.Cash,
	})

	return posting.Transaction(id), account, nil
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	logger.Info("ledger repository list transactions", logger.Fields{
		"accountId": accountID,
	})

	const query = `
SELECT id, account_id, symbol, shares, unit_price, kind, executed_at
FROM transactions
WHERE account_id = $1
ORDER BY executed_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("ledger repository list transactions failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t    domain.Transaction
			kind string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.Shares, &t.UnitPrice, &kind, &t.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = domain.TransactionKind(kind)
		t.ExecutedAt = t.ExecutedAt.UTC()
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

func (r *LedgerRepository) Holdings(ctx context.Context, accountID string) ([]domain.Holding, error) {
	logger.Info("ledger repository holdings", logger.Fields{
		"accountId": accountID,
	})

	const query = `
SELECT symbol, SUM(CASE WHEN kind = 'buy' THEN shares ELSE -shares END) AS net_shares
FROM transactions
WHERE account_id = $1
GROUP BY symbol
HAVING SUM(CASE WHEN kind = 'buy' THEN shares ELSE -shares END) > 0
ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("ledger repository holdings failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("aggregate holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]domain.Holding, 0)
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holdings: %w", err)
	}

	return holdings, nil
}

func sharesHeld(ctx context.Context, tx *sql.Tx, accountID string, symbol string) (int64, error) {
	const query = `
SELECT COALESCE(SUM(CASE WHEN kind = 'buy' THEN shares ELSE -shares END), 0)
FROM transactions
WHERE account_id = $1
  AND symbol = $2`

	var held int64
	if err := tx.QueryRowContext(ctx, query, accountID, symbol).Scan(&held); err != nil {
		return 0, fmt.Errorf("read shares held: %w", err)
	}
	return held, nil
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("execute posting statement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return 0, errors.New("posting failed: account not found or balance would go negative")
	}
	return rows, nil
}
