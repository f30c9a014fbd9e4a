package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/service_interfaces"
)

type TradeController struct {
	service service_interfaces.TradeService
}

func NewTradeController(service service_interfaces.TradeService) *TradeController {
	return &TradeController{service: service}
}

func (c *TradeController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/buy", protect(c.handle(c.service.Buy), authMiddleware))
	mux.Handle("/sell", protect(c.handle(c.service.Sell), authMiddleware))
}

type tradeFunc func(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.TradeConfirmation], error)

func (c *TradeController) handle(trade tradeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logRequest(r, nil)

		if r.Method != http.MethodPost {
			response := commons.ErrorResponse[models.TradeConfirmation]("method not allowed")
			writeJSON(w, http.StatusMethodNotAllowed, response)
			logResponse(r, http.StatusMethodNotAllowed, response, start)
			return
		}

		accountID, ok := middleware.AccountIDFromContext(r.Context())
		if !ok {
			response := commons.ErrorResponse[models.TradeConfirmation]("unauthorized")
			writeJSON(w, http.StatusUnauthorized, response)
			logResponse(r, http.StatusUnauthorized, response, start)
			return
		}

		var req models.TradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logError(r, err, nil)
			response := commons.ErrorResponse[models.TradeConfirmation]("invalid request body", err.Error())
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		logRequest(r, req)

		response, err := trade(r.Context(), accountID, req)
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
}
