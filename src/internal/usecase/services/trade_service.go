package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/shopspring/decimal"
)

type TradeService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	quotes      domain.QuoteProvider
	clock       domain.Clock
	currency    string
}

func NewTradeService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	quotes domain.QuoteProvider,
	clock domain.Clock,
	currency string,
) *TradeService {
	return &TradeService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		quotes:      quotes,
		clock:       clock,
		currency:    strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// Buy prices the order at the current quote and debits its full cost. The
// store checks the balance again under its lock before committing.
func (s *TradeService) Buy(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.TradeConfirmation], error) {
	logger.Info("trade service buy request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(req),
	})

	symbol, shares, err := req.Parse()
	if err != nil {
		logger.Error("trade service buy validation failed", err, nil)
		return commons.KindResponse[models.TradeConfirmation]("validation failed", err), err
	}

	quote, err := lookupQuote(ctx, s.quotes, symbol)
	if err != nil {
		logger.Error("trade service buy quote lookup failed", err, logger.Fields{
			"symbol": symbol,
		})
		return commons.KindResponse[models.TradeConfirmation]("failed to price order", err), err
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		logger.Error("trade service buy account lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.TradeConfirmation](accountFailureMessage(err), err), err
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	if account.Cash.LessThan(cost) {
		err := domain.InsufficientFundsError(cost, account.Cash)
		logger.Info("trade service buy rejected", logger.Fields{
			"accountId": accountID,
			"symbol":    symbol,
			"cost":      cost,
			"cash":      account.Cash,
		})
		return commons.KindResponse[models.TradeConfirmation]("Insufficient funds", err), err
	}

	return s.post(ctx, domain.TradePosting{
		AccountID: accountID,
		Kind:      domain.TransactionKindBuy,
		Symbol:    symbol,
		Shares:    shares,
		UnitPrice: quote.Price,
	}, quote.Name)
}

// Sell checks the position before pricing so that a sale of an unowned symbol
// never hits the quote provider.
func (s *TradeService) Sell(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.TradeConfirmation], error) {
	logger.Info("trade service sell request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(req),
	})

	symbol, shares, err := req.Parse()
	if err != nil {
		logger.Error("trade service sell validation failed", err, nil)
		return commons.KindResponse[models.TradeConfirmation]("validation failed", err), err
	}

	holdings, err := s.ledgerRepo.Holdings(ctx, accountID)
	if err != nil {
		logger.Error("trade service sell holdings lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.TradeConfirmation]("failed to sell shares", err), err
	}

	held := domain.SharesOf(holdings, symbol)
	if held == 0 {
		err := domain.NotOwnedError(symbol)
		logger.Info("trade service sell rejected", logger.Fields{
			"accountId": accountID,
			"symbol":    symbol,
		})
		return commons.KindResponse[models.TradeConfirmation]("Symbol not owned", err), err
	}
	if shares > held {
		err := domain.InsufficientSharesError(symbol, held, shares)
		logger.Info("trade service sell rejected", logger.Fields{
			"accountId": accountID,
			"symbol":    symbol,
			"held":      held,
			"shares":    shares,
		})
		return commons.KindResponse[models.TradeConfirmation]("Insufficient shares", err), err
	}

	quote, err := lookupQuote(ctx, s.quotes, symbol)
	if err != nil {
		logger.Error("trade service sell quote lookup failed", err, logger.Fields{
			"symbol": symbol,
		})
		return commons.KindResponse[models.TradeConfirmation]("failed to price order", err), err
	}

	return s.post(ctx, domain.TradePosting{
		AccountID: accountID,
		Kind:      domain.TransactionKindSell,
		Symbol:    symbol,
		Shares:    shares,
		UnitPrice: quote.Price,
	}, quote.Name)
}

func (s *TradeService) post(ctx context.Context, posting domain.TradePosting, name string) (commons.Response[models.TradeConfirmation], error) {
	posting.ExecutedAt = s.clock.Now()

	tx, account, err := s.ledgerRepo.PostTrade(ctx, posting)
	if err != nil {
		logger.Error("trade service post trade failed", err, logger.Fields{
			"accountId": posting.AccountID,
			"kind":      posting.Kind,
			"symbol":    posting.Symbol,
		})
		return commons.KindResponse[models.TradeConfirmation](postingFailureMessage(err), err), err
	}

	verb := "Bought"
	if tx.Kind == domain.TransactionKindSell {
		verb = "Sold"
	}

	confirmation := models.TradeConfirmation{
		TransactionID: tx.ID,
		Kind:          string(tx.Kind),
		Symbol:        tx.Symbol,
		Name:          name,
		Shares:        tx.Shares,
		UnitPrice:     tx.UnitPrice,
		Total:         tx.Amount(),
		Cash:          account.Cash,
		ExecutedAt:    tx.ExecutedAt.UTC().Format(time.RFC3339Nano),
		Message:       fmt.Sprintf("%s %s of %s for %s", verb, shareCount(tx.Shares), tx.Symbol, commons.FormatMoney(tx.Amount(), s.currency)),
	}

	logger.Info("trade service post trade success", logger.Fields{
		"accountId":     account.ID,
		"transactionId": tx.ID,
		"kind":          tx.Kind,
		"symbol":        tx.Symbol,
		"shares":        tx.Shares,
		"cash":          account.Cash,
	})

	return commons.SuccessResponse(confirmation.Message, confirmation), nil
}

func shareCount(n int64) string {
	if n == 1 {
		return "1 share"
	}
	return fmt.Sprintf("%d shares", n)
}

func accountFailureMessage(err error) string {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return "Account not found"
	}
	return "failed to process order"
}

func postingFailureMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInsufficientFunds:
		return "Insufficient funds"
	case domain.KindInsufficientShares:
		return "Insufficient shares"
	case domain.KindNotOwned:
		return "Symbol not owned"
	case domain.KindConcurrencyConflict:
		return "Account is busy, please retry"
	case domain.KindRecordNotFound:
		return "Account not found"
	default:
		return "failed to process order"
	}
}
