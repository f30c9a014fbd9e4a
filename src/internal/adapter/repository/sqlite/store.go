package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const busyTimeoutMillis = 5000

const netSharesExpr = "SUM(CASE WHEN kind = 'buy' THEN shares ELSE -shares END)"

// Store is the file-backed ledger. Write transactions start with BEGIN
// IMMEDIATE, so SQLite grants one writer at a time and every balance or
// holdings check inside a transaction sees the state it commits against.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on", path, busyTimeoutMillis)

	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&accountRecord{}, &transactionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("sqlite store opened", logger.Fields{
		"path": path,
	})

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("sqlite store create account", logger.Fields{
		"accountId": account.ID,
		"username":  account.Username,
	})

	rec := accountRecord{
		ID:           account.ID,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Cash:         account.Cash,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Account{}, domain.ErrUsernameTaken
		}
		logger.Error("sqlite store create account failed", err, logger.Fields{
			"username": account.Username,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", mapStoreError(err))
	}

	return rec.toDomain(), nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Account, error) {
	var rec accountRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("sqlite store get account failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) ([]domain.Account, error) {
	var recs []accountRecord
	if err := s.db.WithContext(ctx).Where("username = ?", username).Find(&recs).Error; err != nil {
		logger.Error("sqlite store find by username failed", err, logger.Fields{
			"username": username,
		})
		return nil, fmt.Errorf("find accounts by username: %w", err)
	}

	accounts := make([]domain.Account, 0, len(recs))
	for _, rec := range recs {
		accounts = append(accounts, rec.toDomain())
	}
	return accounts, nil
}

func (s *Store) DepositCash(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("sqlite store deposit cash", logger.Fields{
		"accountId": id,
		"amount":    amount,
	})

	var rec accountRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		rec.Cash = rec.Cash.Add(amount)
		return tx.Save(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		err = mapStoreError(err)
		logger.Error("sqlite store deposit cash failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, err
	}

	return rec.toDomain(), nil
}

// PostTrade re-checks cash or holdings and writes the cash update and the
// ledger row inside one immediate transaction.
func (s *Store) PostTrade(ctx context.Context, posting domain.TradePosting) (domain.Transaction, domain.Account, error) {
	logger.Info("sqlite store post trade", logger.Fields{
		"accountId": posting.AccountID,
		"kind":      posting.Kind,
		"symbol":    posting.Symbol,
		"shares":    posting.Shares,
		"unitPrice": posting.UnitPrice,
	})

	if err := posting.Validate(); err != nil {
		return domain.Transaction{}, domain.Account{}, err
	}

	var (
		account accountRecord
		entry   transactionRecord
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", posting.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		switch posting.Kind {
		case domain.TransactionKindBuy:
			if account.Cash.LessThan(posting.Amount()) {
				return domain.InsufficientFundsError(posting.Amount(), account.Cash)
			}
		case domain.TransactionKindSell:
			held, err := sharesHeld(tx, posting.AccountID, posting.Symbol)
			if err != nil {
				return err
			}
			if held <= 0 {
				return domain.NotOwnedError(posting.Symbol)
			}
			if posting.Shares > held {
				return domain.InsufficientSharesError(posting.Symbol, held, posting.Shares)
			}
		}

		account.Cash = account.Cash.Add(posting.CashDelta())
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		entry = transactionRecord{
			AccountID:  posting.AccountID,
			Symbol:     posting.Symbol,
			Shares:     posting.Shares,
			UnitPrice:  posting.UnitPrice,
			Kind:       string(posting.Kind),
			ExecutedAt: posting.ExecutedAt,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		err = mapStoreError(err)
		logger.Error("sqlite store post trade failed", err, logger.Fields{
			"accountId": posting.AccountID,
			"kind":      posting.Kind,
			"symbol":    posting.Symbol,
		})
		return domain.Transaction{}, domain.Account{}, err
	}

	logger.Info("sqlite store post trade success", logger.Fields{
		"accountId":     account.ID,
		"transactionId": entry.ID,
		"cash":          account.Cash,
	})

	return posting.Transaction(entry.ID), account.toDomain(), nil
}

func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	var recs []transactionRecord
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&recs).Error; err != nil {
		logger.Error("sqlite store list transactions failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(recs))
	for _, rec := range recs {
		txs = append(txs, rec.toDomain())
	}
	// executed_at is stored as text, so order on the parsed values.
	domain.SortNewestFirst(txs)
	return txs, nil
}

func (s *Store) Holdings(ctx context.Context, accountID string) ([]domain.Holding, error) {
	var rows []holdingRow
	err := s.db.WithContext(ctx).
		Model(&transactionRecord{}).
		Select("symbol, "+netSharesExpr+" AS shares").
		Where("account_id = ?", accountID).
		Group("symbol").
		Having(netSharesExpr + " > 0").
		Order("symbol").
		Scan(&rows).Error
	if err != nil {
		logger.Error("sqlite store holdings failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("aggregate holdings: %w", err)
	}

	holdings := make([]domain.Holding, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, domain.Holding{Symbol: row.Symbol, Shares: row.Shares})
	}
	return holdings, nil
}

func sharesHeld(tx *gorm.DB, accountID string, symbol string) (int64, error) {
	var held int64
	err := tx.Model(&transactionRecord{}).
		Select("COALESCE("+netSharesExpr+", 0)").
		Where("account_id = ? AND symbol = ?", accountID, symbol).
		Row().
		Scan(&held)
	if err != nil {
		return 0, fmt.Errorf("read shares held: %w", err)
	}
	return held, nil
}

// mapStoreError reports SQLite lock contention as ErrConcurrencyConflict.
func mapStoreError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return domain.WrapError(domain.KindConcurrencyConflict, "account is being updated concurrently", err)
	}
	return err
}
