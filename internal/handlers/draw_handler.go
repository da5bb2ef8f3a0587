package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/middleware"
	"github.com/winningticket/lottery-backend/internal/services"
)

// DrawHandler handles draw and settlement HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// Settle handles POST /games/:id/settle (staff). Settling an already
// closed game returns 200 with the existing draw and an
// alreadyProcessed marker.
func (h *DrawHandler) Settle(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	staffID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	result, err := h.drawService.SettleGame(c.Request.Context(), gameID, staffID)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetByID handles GET /draws/:id
func (h *DrawHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	draw, err := h.drawService.GetDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// ListByGame handles GET /games/:id/draws
func (h *DrawHandler) ListByGame(c *gin.Context) {
	gameID, ok := parseID(c, "id")
	if !ok {
		return
	}
	draws, err := h.drawService.GetGameDraws(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draws)
}
