package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/adapter/http/models"
	"github.com/api-sage/paper-trading-engine/src/internal/commons"
	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/api-sage/paper-trading-engine/src/internal/usecase/service_interfaces"
)

type QuoteController struct {
	service service_interfaces.QuoteService
}

func NewQuoteController(service service_interfaces.QuoteService) *QuoteController {
	return &QuoteController{service: service}
}

func (c *QuoteController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/quote", protect(c.getQuote, authMiddleware))
}

func (c *QuoteController) getQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.QuoteResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	symbol := r.URL.Query().Get("symbol")
	response, err := c.service.GetQuote(r.Context(), symbol)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "symbol": symbol})
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
