package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/winningticket/lottery-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondError translates service errors to HTTP statuses. Sentinels
// map to client errors; anything else is a generic 500 so internal
// detail never leaks.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrInvalidNumbers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGameNotOpen),
		errors.Is(err, services.ErrNumberAlreadyTaken),
		errors.Is(err, services.ErrNoTicketsToSettle),
		errors.Is(err, services.ErrWalletInactive),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrNotClaimed),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseID parses an ObjectID path parameter, writing a 400 on failure
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	parsed, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return parsed, true
}
