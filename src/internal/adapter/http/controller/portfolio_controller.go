package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/service_interfaces"
)

type PortfolioController struct {
	service service_interfaces.PortfolioService
}

func NewPortfolioController(service service_interfaces.PortfolioService) *PortfolioController {
	return &PortfolioController{service: service}
}

func (c *PortfolioController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/portfolio", protect(c.portfolio, authMiddleware))
	mux.Handle("/history", protect(c.history, authMiddleware))
}

func (c *PortfolioController) portfolio(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.PortfolioResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.PortfolioResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.ValuePortfolio(r.Context(), accountID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "accountId": accountID})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *PortfolioController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.HistoryResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.HistoryResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.ListTransactions(r.Context(), accountID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "accountId": accountID})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
