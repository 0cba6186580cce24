package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-tracker/prices"
)

// MarketHandler serves quote lookup and stored price history.
type MarketHandler struct {
	prices *prices.Service
}

func NewMarketHandler(svc *prices.Service) *MarketHandler {
	return &MarketHandler{prices: svc}
}

func (h *MarketHandler) GetQuote(c *gin.Context) {
	ticker := c.Param("ticker")
	exchange := c.DefaultQuery("exchange", "NSE")

	quote, err := h.prices.GetQuote(c.Request.Context(), ticker, exchange)
	if err != nil {
		c.JSON(quoteStatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *MarketHandler) GetHistory(c *gin.Context) {
	ticker := c.Param("ticker")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	snapshots, err := h.prices.History(c.Request.Context(), ticker, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price history"})
		return
	}
	if len(snapshots) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Historical data not found"})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

func quoteStatusFor(err error) int {
	switch {
	case errors.Is(err, prices.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, prices.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, prices.ErrUnreachable), errors.Is(err, prices.ErrMalformedQuote):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
