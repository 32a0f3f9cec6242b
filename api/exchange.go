package api

import (
	"strconv"
	"strings"

	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ExchangeHandler exposes currency conversion backed by the cached
// exchange-rate service.
type ExchangeHandler struct {
	svc *service.ExchangeService
}

// NewExchangeHandler creates the exchange handler.
func NewExchangeHandler(svc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{svc: svc}
}

// Convert converts an amount between two currencies.
// @Summary Convert between currencies
// @Tags exchange
// @Produce json
// @Security BearerAuth
// @Param amount query number true "amount to convert"
// @Param from query string true "source currency (EUR)"
// @Param to query string true "target currency (USD)"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/v1/exchange/convert [get]
func (h *ExchangeHandler) Convert(c *gin.Context) {
	amountStr := c.Query("amount")
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))

	if amountStr == "" || from == "" || to == "" {
		BadRequest(c, "amount, from and to are required")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount < 0 {
		BadRequest(c, "amount must be a non-negative number")
		return
	}

	converted, err := h.svc.Convert(amount, from, to)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "conversion failed"))
		return
	}

	rate, err := h.svc.GetRate(from, to)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "conversion failed"))
		return
	}

	Success(c, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"rate":      rate,
		"converted": converted,
	})
}
