package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/models"
	"github.com/winningticket/lottery-backend/internal/services"
)

// GameHandler handles game HTTP requests
type GameHandler struct {
	gameService services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// List handles GET /games, with an optional ?status= filter
func (h *GameHandler) List(c *gin.Context) {
	status := models.GameStatus(c.Query("status"))
	games, err := h.gameService.GetGames(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetByID handles GET /games/:id
func (h *GameHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	game, err := h.gameService.GetGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// GetBySlug handles GET /games/slug/:slug
func (h *GameHandler) GetBySlug(c *gin.Context) {
	game, err := h.gameService.GetGameBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Create handles POST /games (staff)
func (h *GameHandler) Create(c *gin.Context) {
	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game, err := h.gameService.CreateGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// Publish handles POST /games/:id/publish (staff)
func (h *GameHandler) Publish(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	game, err := h.gameService.PublishGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Cancel handles POST /games/:id/cancel (staff)
func (h *GameHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	game, err := h.gameService.CancelGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
