package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	GameStatusDraft    GameStatus = "draft"
	GameStatusPending  GameStatus = "pending"
	GameStatusActive   GameStatus = "active"
	GameStatusClosed   GameStatus = "closed"
	GameStatusCanceled GameStatus = "canceled"
)

// Game defines one lottery game: pricing, fee split, playable number
// range and lifecycle state. total_tickets_sold only ever increases; a
// closed game accepts no further tickets and no second settlement.
type Game struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Slug               string             `bson:"slug" json:"slug"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	CompanyID          primitive.ObjectID `bson:"companyId" json:"companyId"`
	TicketPrice        money.Amount       `bson:"ticketPrice" json:"ticketPrice"`
	PrizeAmount        money.Amount       `bson:"prizeAmount" json:"prizeAmount"`
	PlatformFeePercent money.Amount       `bson:"platformFeePercent" json:"platformFeePercent"`
	NumberRange        int                `bson:"numberRange" json:"numberRange"`
	Status             GameStatus         `bson:"status" json:"status"`
	TotalTicketsSold   int                `bson:"totalTicketsSold" json:"totalTicketsSold"`
	PublishedAt        time.Time          `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsOpenForSales reports whether tickets can be sold right now
func (g *Game) IsOpenForSales() bool {
	return g.Status == GameStatusActive
}

// CanTransitionTo validates a status change against the one-way
// lifecycle draft -> pending -> active -> closed, with cancellation
// allowed from any non-terminal state.
func (g *Game) CanTransitionTo(next GameStatus) bool {
	switch g.Status {
	case GameStatusDraft:
		return next == GameStatusPending || next == GameStatusActive || next == GameStatusCanceled
	case GameStatusPending:
		return next == GameStatusActive || next == GameStatusCanceled
	case GameStatusActive:
		return next == GameStatusClosed || next == GameStatusCanceled
	case GameStatusClosed, GameStatusCanceled:
		return false
	}
	return false
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the immutable URL slug from a game name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
