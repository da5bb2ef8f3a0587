package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus is the settlement state of a ticket. Pending is the only
// entry state; won, lost and refunded are terminal.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusWon      TicketStatus = "won"
	TicketStatusLost     TicketStatus = "lost"
	TicketStatusRefunded TicketStatus = "refunded"
)

// Ticket is one purchased entry: a set of numbers a player owns for a
// specific game. Numbers are fixed at creation and exclusive per game.
type Ticket struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TicketID   string             `bson:"ticketId" json:"ticketId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	GameID     primitive.ObjectID `bson:"gameId" json:"gameId"`
	DrawID     primitive.ObjectID `bson:"drawId,omitempty" json:"drawId,omitempty"`
	Numbers    []int              `bson:"numbers" json:"numbers"`
	Status     TicketStatus       `bson:"status" json:"status"`
	WinAmount  money.Amount       `bson:"winAmount" json:"winAmount"`
	MatchCount int                `bson:"matchCount" json:"matchCount"`
	Checked    bool               `bson:"checked" json:"checked"`
	CheckedAt  time.Time          `bson:"checkedAt,omitempty" json:"checkedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasNumber reports whether the ticket plays the given number
func (t *Ticket) HasNumber(n int) bool {
	for _, v := range t.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// MatchesAgainst counts how many of the ticket's numbers appear in the
// winning set.
func (t *Ticket) MatchesAgainst(winning []int) int {
	set := make(map[int]struct{}, len(winning))
	for _, n := range winning {
		set[n] = struct{}{}
	}
	matches := 0
	for _, n := range t.Numbers {
		if _, ok := set[n]; ok {
			matches++
		}
	}
	return matches
}
