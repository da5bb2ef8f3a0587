package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draw is the event that selects winning numbers and settles every
// pending ticket of a game. (game, drawNumber) is unique; processed is
// a one-way flag and a processed draw is never settled again.
type Draw struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GameID         primitive.ObjectID `bson:"gameId" json:"gameId"`
	DrawDate       time.Time          `bson:"drawDate" json:"drawDate"`
	DrawNumber     int                `bson:"drawNumber" json:"drawNumber"`
	WinningNumbers []int              `bson:"winningNumbers" json:"winningNumbers"`
	JackpotAmount  money.Amount       `bson:"jackpotAmount" json:"jackpotAmount"`
	JackpotWon     bool               `bson:"jackpotWon" json:"jackpotWon"`
	TotalTickets   int                `bson:"totalTickets" json:"totalTickets"`
	TotalWinners   int                `bson:"totalWinners" json:"totalWinners"`
	TotalPrizePaid money.Amount       `bson:"totalPrizePaid" json:"totalPrizePaid"`
	Processed      bool               `bson:"processed" json:"processed"`
	ProcessedAt    time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
