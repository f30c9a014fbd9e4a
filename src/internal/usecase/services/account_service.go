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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	hasher      domain.CredentialHasher
	initialCash decimal.Decimal
	currency    string
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	hasher domain.CredentialHasher,
	initialCash decimal.Decimal,
	currency string,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		hasher:      hasher,
		initialCash: initialCash.Round(domain.MoneyScale),
		currency:    strings.ToUpper(strings.TrimSpace(currency)),
	}
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service register validation failed", err, nil)
		return commons.KindResponse[models.AccountResponse]("validation failed", err), err
	}

	username := strings.TrimSpace(req.Username)
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.Error("account service register hash password failed", err, logger.Fields{
			"username": username,
		})
		if errors.Is(err, domain.ErrInvalidOrder) {
			return commons.KindResponse[models.AccountResponse]("validation failed", err), err
		}
		return commons.KindResponse[models.AccountResponse]("failed to register account", err), err
	}

	created, err := s.accountRepo.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Cash:         s.initialCash,
	})
	if err != nil {
		logger.Error("account service register repository failed", err, logger.Fields{
			"username": username,
		})
		if errors.Is(err, domain.ErrUsernameTaken) {
			return commons.KindResponse[models.AccountResponse]("Username already exists", err), err
		}
		return commons.KindResponse[models.AccountResponse]("failed to register account", err), err
	}

	logger.Info("account service register success", logger.Fields{
		"accountId": created.ID,
		"username":  created.Username,
	})

	return commons.SuccessResponse("account registered successfully", s.toAccountResponse(created)), nil
}

// Authenticate resolves username and password to an account. A missing user, a
// duplicate match and a wrong password all fail with the same error.
func (s *AccountService) Authenticate(ctx context.Context, req models.LoginRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service authenticate request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service authenticate validation failed", err, nil)
		return commons.KindResponse[models.AccountResponse]("Invalid username and/or password", domain.ErrInvalidCredentials), domain.ErrInvalidCredentials
	}

	username := strings.TrimSpace(req.Username)
	matches, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		logger.Error("account service authenticate lookup failed", err, logger.Fields{
			"username": username,
		})
		return commons.KindResponse[models.AccountResponse]("failed to authenticate", err), err
	}

	if len(matches) != 1 || !s.hasher.Verify(req.Password, matches[0].PasswordHash) {
		logger.Info("account service authenticate rejected", logger.Fields{
			"username": username,
			"matches":  len(matches),
		})
		return commons.KindResponse[models.AccountResponse]("Invalid username and/or password", domain.ErrInvalidCredentials), domain.ErrInvalidCredentials
	}

	logger.Info("account service authenticate success", logger.Fields{
		"accountId": matches[0].ID,
	})

	return commons.SuccessResponse("authenticated successfully", s.toAccountResponse(matches[0])), nil
}

func (s *AccountService) DepositCash(ctx context.Context, accountID string, req models.DepositCashRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service deposit cash request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(req),
	})

	amount, err := req.ParseAmount()
	if err != nil {
		logger.Error("account service deposit cash validation failed", err, nil)
		return commons.KindResponse[models.AccountResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.DepositCash(ctx, accountID, amount)
	if err != nil {
		logger.Error("account service deposit cash repository failed", err, logger.Fields{
			"accountId": accountID,
		})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.KindResponse[models.AccountResponse]("Account not found", err), err
		}
		return commons.KindResponse[models.AccountResponse]("failed to deposit cash", err), err
	}

	logger.Info("account service deposit cash success", logger.Fields{
		"accountId": account.ID,
		"amount":    amount,
		"cash":      account.Cash,
	})

	return commons.SuccessResponse("Added "+commons.FormatMoney(amount, s.currency)+" to your account", s.toAccountResponse(account)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": accountID,
		})
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.KindResponse[models.AccountResponse]("Account not found", err), err
		}
		return commons.KindResponse[models.AccountResponse]("failed to get account", err), err
	}

	return commons.SuccessResponse("account fetched successfully", s.toAccountResponse(account)), nil
}

func (s *AccountService) toAccountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:          account.ID,
		Username:    account.Username,
		Cash:        account.Cash,
		CashDisplay: commons.FormatMoney(account.Cash, s.currency),
		CreatedAt:   account.CreatedAt.UTC().Format(time.RFC3339),
	}
}
