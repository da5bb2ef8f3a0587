package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/services"
)

// FinanceHandler handles game finance HTTP requests (staff surface)
type FinanceHandler struct {
	financeService services.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService services.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
	}
}

// financeView augments the stored record with the derived ratios
type financeView struct {
	*models.GameFinance
	PlatformFeePercentage string `json:"platformFeePercentage"`
	ProfitMargin          string `json:"profitMargin"`
	PayoutRatio           string `json:"payoutRatio"`
}

func newFinanceView(f *models.GameFinance) financeView {
	return financeView{
		GameFinance:           f,
		PlatformFeePercentage: f.PlatformFeePercentage().String(),
		ProfitMargin:          f.ProfitMargin().String(),
		PayoutRatio:           f.PayoutRatio().String(),
	}
}

// Get handles GET /games/:id/finance
func (h *FinanceHandler) Get(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	finance, err := h.financeService.GetFinance(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFinanceView(finance))
}

// SettleFees handles POST /games/:id/finance/settle-fees
func (h *FinanceHandler) SettleFees(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.financeService.SettleFees(c.Request.Context(), gameID); err != nil {
		respondError(c, err)
		return
	}
	finance, err := h.financeService.CheckSettlement(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFinanceView(finance))
}

// PayProfit handles POST /games/:id/finance/pay-profit
func (h *FinanceHandler) PayProfit(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.financeService.PayProfit(c.Request.Context(), gameID); err != nil {
		respondError(c, err)
		return
	}
	finance, err := h.financeService.CheckSettlement(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFinanceView(finance))
}

// Reconcile handles POST /games/:id/finance/reconcile
func (h *FinanceHandler) Reconcile(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	finance, err := h.financeService.Reconcile(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFinanceView(finance))
}
