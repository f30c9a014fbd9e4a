package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/domain"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the quote requests a single valuation keeps in
// flight.
const maxConcurrentLookups = 8

type PortfolioService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	quotes      domain.QuoteProvider
	currency    string
}

func NewPortfolioService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	quotes domain.QuoteProvider,
	currency string,
) *PortfolioService {
	return &PortfolioService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		quotes:      quotes,
		currency:    strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// ValuePortfolio prices every holding at its current quote. Lookups run
// concurrently and the first failure cancels the rest; no partial valuation is
// ever returned.
func (s *PortfolioService) ValuePortfolio(ctx context.Context, accountID string) (commons.Response[models.PortfolioResponse], error) {
	logger.Info("portfolio service value portfolio request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		logger.Error("portfolio service account lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.PortfolioResponse](accountFailureMessage(err), err), err
	}

	holdings, err := s.ledgerRepo.Holdings(ctx, accountID)
	if err != nil {
		logger.Error("portfolio service holdings lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.PortfolioResponse]("failed to value portfolio", err), err
	}

	quotes := make([]domain.Quote, len(holdings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, h := range holdings {
		g.Go(func() error {
			q, err := lookupQuote(gctx, s.quotes, h.Symbol)
			if err != nil {
				return err
			}
			quotes[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrQuoteUnavailable) {
			err = domain.WrapError(domain.KindQuoteUnavailable, "Unable to price every holding", err)
		}
		logger.Error("portfolio service quote lookup failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.PortfolioResponse]("failed to value portfolio", err), err
	}

	response := models.PortfolioResponse{
		Holdings: make([]models.HoldingValuation, 0, len(holdings)),
		Cash:     account.Cash,
	}
	total := account.Cash
	for i, h := range holdings {
		value := quotes[i].Price.Mul(decimal.NewFromInt(h.Shares))
		total = total.Add(value)
		response.Holdings = append(response.Holdings, models.HoldingValuation{
			Symbol:       h.Symbol,
			Name:         quotes[i].Name,
			Shares:       h.Shares,
			Price:        quotes[i].Price,
			Value:        value,
			ValueDisplay: commons.FormatMoney(value, s.currency),
		})
	}
	response.Total = total
	response.CashDisplay = commons.FormatMoney(account.Cash, s.currency)
	response.TotalDisplay = commons.FormatMoney(total, s.currency)

	logger.Info("portfolio service value portfolio success", logger.Fields{
		"accountId": accountID,
		"holdings":  len(response.Holdings),
		"total":     total,
	})

	return commons.SuccessResponse("portfolio valued successfully", response), nil
}

func (s *PortfolioService) ListTransactions(ctx context.Context, accountID string) (commons.Response[models.HistoryResponse], error) {
	logger.Info("portfolio service list transactions request", logger.Fields{
		"accountId": accountID,
	})

	txs, err := s.ledgerRepo.ListTransactions(ctx, accountID)
	if err != nil {
		logger.Error("portfolio service list transactions failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.KindResponse[models.HistoryResponse]("failed to list transactions", err), err
	}

	response := models.HistoryResponse{
		Transactions: make([]models.TransactionEntry, 0, len(txs)),
	}
	for _, tx := range txs {
		response.Transactions = append(response.Transactions, models.TransactionEntry{
			ID:         tx.ID,
			Kind:       string(tx.Kind),
			Symbol:     tx.Symbol,
			Shares:     tx.Shares,
			UnitPrice:  tx.UnitPrice,
			Total:      tx.Amount(),
			ExecutedAt: tx.ExecutedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	return commons.SuccessResponse("transactions fetched successfully", response), nil
}
