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

type AccountRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId": account.ID,
		"username":  account.Username,
	})

	const query = `
INSERT INTO accounts (
	id,
	username,
	password_hash,
	cash
) VALUES ($1, $2, $3, $4)
RETURNING id, username, password_hash, cash, created_at, updated_at`

	var created domain.Account
	if err := scanAccount(r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Cash,
	), &created); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository username taken", logger.Fields{
				"username": account.Username,
			})
			return domain.Account{}, domain.ErrUsernameTaken
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"username": account.Username,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": created.ID,
		"username":  created.Username,
	})

	return created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	logger.Info("account repository get by id", logger.Fields{
		"accountId": id,
	})

	const query = `
SELECT id, username, password_hash, cash, created_at, updated_at
FROM accounts
WHERE id = $1`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, id), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": id,
			})
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get by id failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) ([]domain.Account, error) {
	logger.Info("account repository find by username", logger.Fields{
		"username": username,
	})

	const query = `
SELECT id, username, password_hash, cash, created_at, updated_at
FROM accounts
WHERE username = $1`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		logger.Error("account repository find by username failed", err, logger.Fields{
			"username": username,
		})
		return nil, fmt.Errorf("find accounts by username: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, 1)
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) DepositCash(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository deposit cash", logger.Fields{
		"accountId": id,
		"amount":    amount,
	})

	const query = `
UPDATE accounts
SET cash = cash + $2::numeric,
    updated_at = NOW()
WHERE id = $1
RETURNING id, username, password_hash, cash, created_at, updated_at`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, id, amount), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository deposit cash failed", err, logger.Fields{
			"accountId": id,
			"amount":    amount,
		})
		return domain.Account{}, fmt.Errorf("deposit cash: %w", err)
	}

	logger.Info("account repository deposit cash success", logger.Fields{
		"accountId": account.ID,
		"cash":      account.Cash,
	})

	return account, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Cash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}
