package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-tracker/ledger"
	"portfolio-tracker/middleware"
	"portfolio-tracker/models"
)

// PortfolioService is what the portfolio routes need from the ledger.
type PortfolioService interface {
	Buy(ctx context.Context, userID uuid.UUID, ticker, exchange string) (*models.Position, error)
	Sell(ctx context.Context, userID uuid.UUID, slot int) (*models.SaleResult, error)
	Value(ctx context.Context, userID uuid.UUID) (*models.Valuation, error)
}

// PortfolioHandler serves buy, sell and holdings.
type PortfolioHandler struct {
	ledger PortfolioService
}

func NewPortfolioHandler(l PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{ledger: l}
}

type BuyInput struct {
	Ticker   string `json:"ticker" binding:"required"`
	Exchange string `json:"exchange" binding:"required"`
}

func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var input BuyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide ticker and exchange"})
		return
	}

	position, err := h.ledger.Buy(c.Request.Context(), userID, input.Ticker, input.Exchange)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock purchased successfully", "stock": position})
}

type SellInput struct {
	Slot int `json:"id" binding:"required"`
}

func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var input SellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide stock id"})
		return
	}

	result, err := h.ledger.Sell(c.Request.Context(), userID, input.Slot)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Stock sold successfully",
		"stock":         result.Sold,
		"profit":        result.Gain,
		"currentProfit": result.RealizedProfit,
	})
}

func (h *PortfolioHandler) Holdings(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	valuation, err := h.ledger.Value(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// statusFor maps ledger errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrCapacityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrPriceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
