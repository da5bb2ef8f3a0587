package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/middleware"
	"github.com/winningticket/lottery-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	ticketService services.TicketService
	drawService   services.DrawService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService services.TicketService, drawService services.DrawService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		drawService:   drawService,
	}
}

// purchaseRequest is the payload for buying a ticket
type purchaseRequest struct {
	GameID  primitive.ObjectID `json:"gameId" binding:"required"`
	Numbers []int              `json:"numbers" binding:"required"`
}

// Purchase handles POST /tickets
func (h *TicketHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.ticketService.PurchaseTicket(c.Request.Context(), userID, req.GameID, req.Numbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GetMine handles GET /tickets
func (h *TicketHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	tickets, err := h.ticketService.GetUserTickets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetByID handles GET /tickets/:id
func (h *TicketHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Check handles GET /tickets/:id/check
func (h *TicketHandler) Check(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.drawService.CheckTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
