package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameFinance is the running financial aggregate for one game, created
// together with the game. Sales and payouts update it incrementally via
// server-side atomic adds; Reconcile can rebuild it from the Payment
// history.
type GameFinance struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GameID primitive.ObjectID `bson:"gameId" json:"gameId"`

	TotalSales   money.Amount `bson:"totalSales" json:"totalSales"`
	TotalTickets int          `bson:"totalTickets" json:"totalTickets"`

	PlatformFeeAmount money.Amount `bson:"platformFeeAmount" json:"platformFeeAmount"`
	OrganizerProfit   money.Amount `bson:"organizerProfit" json:"organizerProfit"`

	TotalPrizePool money.Amount `bson:"totalPrizePool" json:"totalPrizePool"`
	PrizePaidOut   money.Amount `bson:"prizePaidOut" json:"prizePaidOut"`
	PrizeRemaining money.Amount `bson:"prizeRemaining" json:"prizeRemaining"`

	// Settlement flags, all one-way false -> true
	PrizePaid   bool `bson:"prizePaid" json:"prizePaid"`
	FeesSettled bool `bson:"feesSettled" json:"feesSettled"`
	ProfitPaid  bool `bson:"profitPaid" json:"profitPaid"`
	Settled     bool `bson:"settled" json:"settled"`

	LastSaleAt     time.Time `bson:"lastSaleAt,omitempty" json:"lastSaleAt,omitempty"`
	PrizeSettledAt time.Time `bson:"prizeSettledAt,omitempty" json:"prizeSettledAt,omitempty"`
	ProfitPaidAt   time.Time `bson:"profitPaidAt,omitempty" json:"profitPaidAt,omitempty"`
	SettledAt      time.Time `bson:"settledAt,omitempty" json:"settledAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ReadyToSettle reports whether every settlement condition holds. The
// stored Settled flag is only ever flipped when this returns true.
func (f *GameFinance) ReadyToSettle() bool {
	return f.PrizePaid && f.FeesSettled && f.ProfitPaid && !f.PrizeRemaining.IsPositive()
}

// PlatformFeePercentage is the realized fee share of sales, zero when
// nothing has been sold.
func (f *GameFinance) PlatformFeePercentage() money.Amount {
	return f.PlatformFeeAmount.Ratio(f.TotalSales)
}

// ProfitMargin is the organizer share of sales
func (f *GameFinance) ProfitMargin() money.Amount {
	return f.OrganizerProfit.Ratio(f.TotalSales)
}

// PayoutRatio is the prize pool relative to sales
func (f *GameFinance) PayoutRatio() money.Amount {
	return f.TotalPrizePool.Ratio(f.TotalSales)
}
