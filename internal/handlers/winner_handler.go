package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/middleware"
	"github.com/winningticket/lottery-backend/internal/services"
	"github.com/winningticket/lottery-backend/pkg/money"
)

// WinnerHandler handles winner HTTP requests
type WinnerHandler struct {
	winnerService services.WinnerService
}

// NewWinnerHandler creates a new WinnerHandler
func NewWinnerHandler(winnerService services.WinnerService) *WinnerHandler {
	return &WinnerHandler{
		winnerService: winnerService,
	}
}

// ListByDraw handles GET /draws/:id/winners
func (h *WinnerHandler) ListByDraw(c *gin.Context) {
	drawID, ok := parseID(c, "id")
	if !ok {
		return
	}
	winners, err := h.winnerService.GetDrawWinners(c.Request.Context(), drawID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}

// ListMine handles GET /winners
func (h *WinnerHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	winners, err := h.winnerService.GetUserWinners(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}

// Claim handles POST /winners/:id/claim
func (h *WinnerHandler) Claim(c *gin.Context) {
	winnerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	winner, err := h.winnerService.ClaimPrize(c.Request.Context(), winnerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}

// payoutRequest is the payload for recording an external payout
type payoutRequest struct {
	Method      string       `json:"method" binding:"required"`
	Reference   string       `json:"reference" binding:"required"`
	TaxWithheld money.Amount `json:"taxWithheld"`
}

// RecordPayout handles POST /winners/:id/payout (staff)
func (h *WinnerHandler) RecordPayout(c *gin.Context) {
	winnerID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req payoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winner, err := h.winnerService.RecordPayout(c.Request.Context(), winnerID, req.Method, req.Reference, req.TaxWithheld)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}
