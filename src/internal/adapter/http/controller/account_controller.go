package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/service_interfaces"
)

type TokenIssuer interface {
	Issue(accountID string, username string) (string, time.Time, error)
}

type AccountController struct {
	service service_interfaces.AccountService
	tokens  TokenIssuer
}

func NewAccountController(service service_interfaces.AccountService, tokens TokenIssuer) *AccountController {
	return &AccountController{service: service, tokens: tokens}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/register", http.HandlerFunc(c.register))
	mux.Handle("/login", http.HandlerFunc(c.login))
	mux.Handle("/account", protect(c.getAccount, authMiddleware))
	mux.Handle("/account/deposit", protect(c.deposit, authMiddleware))
}

func (c *AccountController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Register(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.LoginResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	authenticated, err := c.service.Authenticate(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": authenticated.Message})
		response := commons.KindResponse[models.LoginResponse](authenticated.Message, err)
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	account := *authenticated.Data
	token, expiresAt, err := c.tokens.Issue(account.ID, account.Username)
	if err != nil {
		logError(r, err, logger.Fields{"accountId": account.ID})
		response := commons.ErrorResponse[models.LoginResponse]("Unable to sign in right now")
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	response := commons.SuccessResponse("Logged in", models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		Account:   account,
	})
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.GetAccount(r.Context(), accountID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.DepositCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.DepositCash(r.Context(), accountID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
