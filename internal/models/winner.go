package models

import (
	"time"

	"github.com/winningticket/lottery-backend/pkg/money"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner records a winning ticket and its prize. TicketID carries a
// unique index, so a ticket can win at most once. paid implies claimed.
type Winner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	TicketID    primitive.ObjectID `bson:"ticketId" json:"ticketId"`
	DrawID      primitive.ObjectID `bson:"drawId" json:"drawId"`
	PrizeAmount money.Amount       `bson:"prizeAmount" json:"prizeAmount"`
	PrizeTier   string             `bson:"prizeTier" json:"prizeTier"`

	Claimed   bool      `bson:"claimed" json:"claimed"`
	ClaimedAt time.Time `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
	Paid      bool      `bson:"paid" json:"paid"`
	PaidAt    time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`

	TaxWithheld     money.Amount `bson:"taxWithheld" json:"taxWithheld"`
	PayoutMethod    string       `bson:"payoutMethod,omitempty" json:"payoutMethod,omitempty"`
	PayoutReference string       `bson:"payoutReference,omitempty" json:"payoutReference,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NetAmount is the prize after tax withholding
func (w *Winner) NetAmount() money.Amount {
	return w.PrizeAmount.Sub(w.TaxWithheld)
}
