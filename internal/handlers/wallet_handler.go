package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/middleware"
	"github.com/winningticket/lottery-backend/internal/services"
	"github.com/winningticket/lottery-backend/pkg/money"
)

// WalletHandler handles wallet HTTP requests
type WalletHandler struct {
	walletService services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// amountRequest is the payload for deposits and withdrawals
type amountRequest struct {
	Amount money.Amount `json:"amount" binding:"required"`
}

// GetWallets handles GET /wallets
func (h *WalletHandler) GetWallets(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	wallets, err := h.walletService.GetWallets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}

// Deposit handles POST /wallets/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	payment, err := h.walletService.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// Withdraw handles POST /wallets/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	payment, err := h.walletService.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}
